package agentgate

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/flexigpt/agentgate-go/spec"

	"github.com/flexigpt/agentgate-go/internal/sessionstore"
	"github.com/flexigpt/agentgate-go/internal/webfetch"
)

// Runtime owns session gate state and the research pipeline backends.
// One Runtime serves many concurrent sessions.
type Runtime struct {
	logger   *slog.Logger
	catalog  spec.Catalog
	sessions *sessionstore.Store

	searcher  spec.Searcher
	newEngine func() (spec.BrowserEngine, error)
	embedder  spec.Embedder

	fetchConcurrency int
	settleDelay      time.Duration
	perPageTimeout   time.Duration
}

func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		logger:           slog.Default(),
		sessions:         sessionstore.New(),
		fetchConcurrency: defaultFetchConcurrency,
		settleDelay:      webfetch.DefaultSettleDelay,
		perPageTimeout:   webfetch.DefaultPerPageTimeout,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(rt); err != nil {
			return nil, err
		}
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	if rt.catalog == nil {
		return nil, spec.ErrNotConfigured
	}
	return rt, nil
}

func (r *Runtime) NewSession(ctx context.Context) (spec.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := r.sessions.NewSession()
	return spec.SessionID(s.ID), nil
}

func (r *Runtime) CloseSession(ctx context.Context, id spec.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(string(id)) == "" {
		return nil
	}
	r.sessions.Delete(string(id))
	return nil
}

// Session returns a convenience wrapper bound to a session ID, including
// tool registration via package gatetool.
func (r *Runtime) Session(id spec.SessionID) *Session {
	return &Session{rt: r, id: id}
}

// GateSnapshot returns the current gate state of a session.
func (r *Runtime) GateSnapshot(sessionID spec.SessionID) (spec.GateSnapshot, error) {
	sess, err := r.mustGetSession(sessionID)
	if err != nil {
		return spec.GateSnapshot{}, err
	}
	return sess.Gate.Snapshot(), nil
}

// LoadSkill implements skills.load behavior. The catalog is re-read on
// every call, so a skill added on disk is loadable on the next turn.
//
// An unknown name is NOT an error: the result carries Loaded=false and
// the catalog listing so the model can correct itself. Gate state is
// untouched on a miss.
func (r *Runtime) LoadSkill(
	ctx context.Context,
	sessionID spec.SessionID,
	args spec.LoadSkillArgs,
) (spec.LoadSkillResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.LoadSkillResult{}, err
	}

	name := strings.TrimSpace(args.Name)
	if name == "" {
		return spec.LoadSkillResult{}, spec.ErrInvalidArgument
	}

	sess, err := r.mustGetSession(sessionID)
	if err != nil {
		return spec.LoadSkillResult{}, err
	}

	skills, err := r.catalog.ListSkills(ctx)
	if err != nil {
		return spec.LoadSkillResult{}, err
	}

	for _, sk := range skills {
		if sk.Name != name {
			continue
		}
		sess.Gate.Apply(sk, args.Step)
		snap := sess.Gate.Snapshot()

		r.logger.Info("skill loaded",
			"session", sessionID, "skill", name, "step", args.Step,
			"allowed_tools", snap.AllowedTools)
		return spec.LoadSkillResult{
			Loaded:       true,
			Content:      sk.Content,
			AllowedTools: snap.AllowedTools,
		}, nil
	}

	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}
	sort.Strings(names)

	r.logger.Info("skill load miss", "session", sessionID, "skill", name)
	return spec.LoadSkillResult{
		Loaded:          false,
		AvailableSkills: names,
	}, nil
}

func (r *Runtime) mustGetSession(id spec.SessionID) (*sessionstore.Session, error) {
	sid := strings.TrimSpace(string(id))
	if sid == "" {
		return nil, spec.ErrSessionNotFound
	}
	s, ok := r.sessions.Get(sid)
	if !ok {
		return nil, spec.ErrSessionNotFound
	}
	return s, nil
}

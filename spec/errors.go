package spec

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrSkillNotFound        = errors.New("skill not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidSkillDir      = errors.New("invalid skill directory")
	ErrSearchUnavailable    = errors.New("search unavailable")
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrNotConfigured        = errors.New("not configured")
	ErrToolNotAllowed       = errors.New("tool not allowed by gate")
)

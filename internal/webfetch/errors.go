package webfetch

import "errors"

var errNoTitle = errors.New("page has no extractable title")

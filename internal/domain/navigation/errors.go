package navigation

import "errors"

var (
	// ErrViewNotFound reports an identifier the catalog cannot resolve
	ErrViewNotFound = errors.New("view not found")
	// ErrRenderFailure reports a resolved view the presenter could not materialise
	ErrRenderFailure = errors.New("render failure")
	// ErrNotASubview reports an embed request for a non-embeddable view
	ErrNotASubview = errors.New("view is not a subview")
	// ErrUnsupportedContainer reports a container without item-list support
	ErrUnsupportedContainer = errors.New("container does not support item lists")
)

package app_errors

import "errors"

var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrWrongTokenKind = errors.New("wrong token kind")
var ErrDuplicateIdentity = errors.New("username or email already registered")
var ErrInvalidCredentials = errors.New("incorrect username or password")
var ErrUserNotFound = errors.New("user not found")
var ErrUserInactive = errors.New("inactive user")
var ErrWeakPassword = errors.New("password must be between 8 and 72 characters")
var ErrModelNotFound = errors.New("model not found")
var ErrModelInactive = errors.New("model is not active")
var ErrFileTooLarge = errors.New("file too large")
var ErrUnsupportedFramework = errors.New("unsupported model framework")
var ErrBadArtifact = errors.New("model artifact is malformed")
var ErrBadInput = errors.New("unsupported input format")

package gallery

import "errors"

var (
	ErrInvalidInput = errors.New("invalid YouTube URL")
	ErrUnauthorized = errors.New("admin session required")
	ErrRemoteRead   = errors.New("remote read failed")
	ErrRemoteWrite  = errors.New("remote write failed")
	ErrNotFound     = errors.New("video not found in remote collection")
	ErrDuplicate    = errors.New("video already in collection")
)

// User-facing messages for the error taxonomy. Causes stay in the logs.
const (
	MsgInvalidInput    = "Invalid YouTube URL. Please check the URL and try again."
	MsgUnauthorizedAdd = "You must be logged in as admin to add videos."
	MsgUnauthorizedDel = "You must be logged in as admin to delete videos."
	MsgAddFailed       = "Failed to add video. Please try again."
	MsgDeleteFailed    = "Failed to delete video. Please try again."
	MsgNotFound        = "Video not found in database. It may be a fallback video that cannot be deleted."
	MsgDuplicate       = "This video is already in the gallery."
)

package view

import (
	"errors"
	"fmt"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/client"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a user-visible message. Every failed operation produces exactly
// one, except for malformed response bodies, which are only logged.
type Notice struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Notified reports whether the controller raised a notice for err.
func Notified(err error) bool {
	var parseErr *client.ParseError
	return !errors.As(err, &parseErr)
}

func failure(action string, err error) Notice {
	return Notice{Level: LevelError, Message: fmt.Sprintf("%s: %s", action, describe(err))}
}

func describe(err error) string {
	var (
		netErr    *client.NetworkError
		serverErr *client.ServerError
		validErr  *api.ValidationError
	)
	switch {
	case errors.As(err, &validErr):
		return validErr.Error()
	case errors.As(err, &netErr):
		return "could not reach the catalog service"
	case errors.As(err, &serverErr):
		if serverErr.Detail != nil && serverErr.Detail.Message != "" {
			return fmt.Sprintf("%s (%d)", serverErr.Detail.Message, serverErr.StatusCode)
		}
		return fmt.Sprintf("server error (%d)", serverErr.StatusCode)
	case errors.Is(err, ErrMutationInFlight):
		return "another change is still being saved"
	default:
		return err.Error()
	}
}

package cli

import (
	"context"
	"errors"
	"os"

	"simspay/internal/api"
)

// printErr turns a gateway error into a user-facing line. Unauthorized
// needs no extra handling here: by the time it surfaces, the gateway
// has already ended the session.
func (a *App) printErr(err error) {
	var st *api.StatusError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		printlnFn("Session expired, please log in again.")
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Server unavailable, please try again later.")
	case errors.As(err, &st):
		printlnFn("Rejected:", st.Message)
	default:
		printlnFn("Error:", err.Error())
	}
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.account.Login(ctx, email, password); err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Login successful.")
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	first, err := GetSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	last, err := GetSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.account.Register(ctx, email, first, last, password); err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Registration successful, you can log in now.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.account.Logout(ctx); err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Logged out.")
	return nil
}

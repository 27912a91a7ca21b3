package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/storecrew/timeclock/internal/config"
	"github.com/storecrew/timeclock/internal/domain/session"
)

// Identity is who the scheduling service says the credentials belong to.
type Identity struct {
	EmployeeID   string
	EmployeeName string
}

// Authenticator performs the resource-owner password grant against the
// scheduling API's token endpoint. The returned http.Client refreshes
// its token transparently for the lifetime of the kiosk session.
type Authenticator struct {
	conf *oauth2.Config
}

func NewAuthenticator(cfg config.UpstreamConfig) *Authenticator {
	return &Authenticator{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// Login exchanges the employee code and PIN for a token. The token
// endpoint includes the resolved identity as extra fields; without them
// the grant is treated as invalid.
func (a *Authenticator) Login(ctx context.Context, employeeCode, pin string) (Identity, *http.Client, error) {
	token, err := a.conf.PasswordCredentialsToken(ctx, employeeCode, pin)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500 {
			return Identity{}, nil, session.ErrInvalidCredentials
		}
		return Identity{}, nil, fmt.Errorf("failed to obtain upstream token: %w", err)
	}

	employeeID, _ := token.Extra("employee_id").(string)
	employeeName, _ := token.Extra("employee_name").(string)
	if employeeID == "" {
		return Identity{}, nil, fmt.Errorf("token response missing employee identity: %w", session.ErrInvalidCredentials)
	}

	client := oauth2.NewClient(context.WithoutCancel(ctx), a.conf.TokenSource(context.WithoutCancel(ctx), token))

	return Identity{EmployeeID: employeeID, EmployeeName: employeeName}, client, nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gymclass/internal/auth"
	"gymclass/internal/config"
	"gymclass/internal/server"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.Config{
	JWTSecret:   "test-secret",
	JWTIssuer:   "gymclass-identity",
	JWTAudience: "gymclass-api",
}

func noDatabase(t *testing.T) appOpener {
	return func(*config.Config) (*server.App, *sqlx.DB, func(), error) {
		t.Fatal("command should not open the database")
		return nil, nil, nil, nil
	}
}

func TestRun_Token(t *testing.T) {
	var out bytes.Buffer
	userID := uuid.New()

	err := run(context.Background(), testConfig, []string{"token", "-user", userID.String(), "-role", "trainer", "-email", "t@example.com"}, &out, noDatabase(t))
	require.NoError(t, err)

	claims, err := auth.ValidateToken(strings.TrimSpace(out.String()), auth.TokenConfig{
		Secret:   testConfig.JWTSecret,
		Issuer:   testConfig.JWTIssuer,
		Audience: testConfig.JWTAudience,
	})
	require.NoError(t, err)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, auth.Actor{UserID: userID, Role: auth.RoleTrainer}, actor)
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"No command", nil},
		{"Unknown command", []string{"launch"}},
		{"Token without user", []string{"token", "-role", "admin"}},
		{"Token with bad role", []string{"token", "-user", uuid.NewString(), "-role", "owner"}},
		{"Unknown flag", []string{"token", "-color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), testConfig, tt.args, &bytes.Buffer{}, noDatabase(t))
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRun_DecideNeedsOneVerdict(t *testing.T) {
	opened := false
	open := func(*config.Config) (*server.App, *sqlx.DB, func(), error) {
		opened = true
		return &server.App{}, nil, func() {}, nil
	}

	for _, args := range [][]string{
		{"decide", "-subscription", uuid.NewString(), "-admin", uuid.NewString()},
		{"decide", "-subscription", uuid.NewString(), "-admin", uuid.NewString(), "-approve", "-reject"},
		{"decide", "-subscription", "x", "-admin", uuid.NewString(), "-approve"},
	} {
		err := run(context.Background(), testConfig, args, &bytes.Buffer{}, open)
		assert.ErrorIs(t, err, errUsage)
	}
	assert.True(t, opened)
}

func TestRun_OpenFailure(t *testing.T) {
	open := func(*config.Config) (*server.App, *sqlx.DB, func(), error) {
		return nil, nil, nil, errors.New("connection refused")
	}

	err := run(context.Background(), testConfig, []string{"sweep"}, &bytes.Buffer{}, open)
	assert.EqualError(t, err, "connection refused")
}

// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	vo "github.com/oksasatya/go-ddd-user-registry/internal/domain/valueobject"
)

// Valid document numbers used across tests.
const (
	ValidCPF      = "11144477735"
	OtherValidCPF = "52998224725"
	ValidCNPJ     = "11222333000181"
)

// BaseTime is the creation time of the first seeded user.
var BaseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// User builds a stored-looking user with explicit id and timestamps.
func User(t testing.TB, username, email string, createdAt time.Time) *entity.User {
	t.Helper()
	un, err := vo.NewUsername(username)
	require.NoError(t, err)
	em, err := vo.NewEmail(email)
	require.NoError(t, err)
	doc, err := vo.NewDocument(vo.DocumentKindPersonal, ValidCPF)
	require.NoError(t, err)
	return entity.Rehydrate(uuid.NewString(), un, em, doc, createdAt, createdAt)
}

// Users builds n users named user1..usern, each created one minute after the
// previous one, so users[n-1] is the newest.
func Users(t testing.TB, n int) []*entity.User {
	t.Helper()
	out := make([]*entity.User, n)
	for i := 0; i < n; i++ {
		out[i] = User(t,
			fmt.Sprintf("user%d", i+1),
			fmt.Sprintf("user%d@example.com", i+1),
			BaseTime.Add(time.Duration(i)*time.Minute),
		)
	}
	return out
}

// Username parses raw into a Username, failing the test when invalid.
func Username(t testing.TB, raw string) vo.Username {
	t.Helper()
	un, err := vo.NewUsername(raw)
	require.NoError(t, err)
	return un
}

// Email parses raw into an Email, failing the test when invalid.
func Email(t testing.TB, raw string) vo.Email {
	t.Helper()
	em, err := vo.NewEmail(raw)
	require.NoError(t, err)
	return em
}

package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/storage/database/inmem"
)

// NewConfig returns a self-contained test configuration; nothing is read from
// the environment.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "Chuo",
		Env:              "TEST",
		TestMode:         true,
		Build:            "test",
		SecretKey:        "s3cr3t",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Chuo", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			Host:                      "localhost",
			Port:                      "8000",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 2 * time.Hour,
		},
		Campus: core.CampusConfig{Lat: 18.5204, Lng: 73.8567},
	}
}

// OpenDB returns a fresh memory-only store.
func OpenDB(t *testing.T) *inmemdb.DB {
	db, err := inmemdb.Open(nil)
	if err != nil {
		t.Fatalf("OpenDB(): %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	division string,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        name + "-" + string(role), // deterministic, tests only
		Name:      name,
		Email:     core.CleanString(email, true /* lower */),
		Role:      role,
		Division:  division,
		Avatar:    user.AvatarURL(name),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

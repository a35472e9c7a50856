package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/storage/database/sqlx"
	"github.com/trezcool/chuo/storage/snapshot"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	workDir, err := os.Getwd()
	errAndDie(err)

	conf, err := core.NewConfig(workDir)
	errAndDie(err)

	usrRepo, closeFn, err := setupUserRepository(conf)
	errAndDie(err)
	defer func() { _ = closeFn() }()

	// start CLI
	cli := commandLine{
		conf:    conf,
		usrRepo: usrRepo,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// setupUserRepository mirrors the API's storage selection so the CLI operates
// on the same data the server would.
func setupUserRepository(conf *core.Config) (user.Repository, func() error, error) {
	if conf.Database.User != "" {
		db, err := sqlxrepos.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = sqlxrepos.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewUserRepository(db), db.Close, nil
	}

	var snap snapshot.Snapshotter
	closeFn := func() error { return nil }
	if conf.Redis.Addr != "" {
		redisSnap := snapshot.NewRedis(conf.Redis.Addr, conf.Redis.KeyPrefix)
		snap = redisSnap
		closeFn = redisSnap.Close
	} else {
		fileSnap, err := snapshot.NewFile(filepath.Join(conf.WorkDir, "data"))
		if err != nil {
			return nil, nil, err
		}
		snap = fileSnap
	}

	db, err := inmemdb.Open(snap)
	if err != nil {
		return nil, nil, err
	}
	return inmemdb.NewUserRepository(db), closeFn, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/trezcool/chuo/apps/api/echo"
	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/services/email"
	"github.com/trezcool/chuo/services/geo"
	"github.com/trezcool/chuo/services/logger"
	"github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/storage/database/sqlx"
	"github.com/trezcool/chuo/storage/snapshot"
)

type repositories struct {
	usr       user.Repository
	session   attendance.Repository
	notice    notice.Repository
	academics academics.Repository
	close     func() error
}

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	workDir, err := os.Getwd()
	errAndDie(std, err)

	conf, err := core.NewConfig(workDir)
	errAndDie(std, err)

	var appLogger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, conf)
	}
	appLogger.Enable(!conf.TestMode)

	// set up storage
	repos, err := setupRepositories(conf)
	errAndDie(std, err)
	defer func() { _ = repos.close() }()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, appLogger)
	}
	usrSvc := user.NewService(repos.usr, mailSvc, conf)
	attSvc := attendance.NewService(repos.session)
	noticeSvc := notice.NewService(repos.notice)
	acadSvc := academics.NewService(repos.academics)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        appLogger,
			UserSvc:       usrSvc,
			AttendanceSvc: attSvc,
			NoticeSvc:     noticeSvc,
			AcademicsSvc:  acadSvc,
			Locator:       geosvc.NewStaticLocator(conf),
		},
	)
	if err := app.Start(); err != nil {
		appLogger.Error("server stopped", err)
		os.Exit(1)
	}
}

// setupRepositories opens the Postgres-backed store when a database user is
// configured; otherwise it runs on the in-memory store, snapshotted to Redis
// or to local JSON files.
func setupRepositories(conf *core.Config) (*repositories, error) {
	if conf.Database.User != "" {
		db, err := sqlxrepos.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = sqlxrepos.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &repositories{
			usr:       sqlxrepos.NewUserRepository(db),
			session:   sqlxrepos.NewSessionRepository(db),
			notice:    sqlxrepos.NewNoticeRepository(db),
			academics: sqlxrepos.NewAcademicsRepository(db),
			close:     db.Close,
		}, nil
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
			return nil, err
		}
		snap = fileSnap
	}

	db, err := inmemdb.Open(snap)
	if err != nil {
		return nil, err
	}
	return &repositories{
		usr:       inmemdb.NewUserRepository(db),
		session:   inmemdb.NewSessionRepository(db),
		notice:    inmemdb.NewNoticeRepository(db),
		academics: inmemdb.NewAcademicsRepository(db),
		close:     closeFn,
	}, nil
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

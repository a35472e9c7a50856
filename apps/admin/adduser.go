package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
)

// defaultHODEmail identifies the bootstrap account. It is created once so a
// fresh install always has someone able to register the rest of the staff.
const (
	defaultHODName  = "Head of Department"
	defaultHODEmail = "hod@chuo.cd"
)

// bootstrap creates the default HOD account if no user holds its email yet.
func (cli *commandLine) bootstrap() error {
	ctx := context.Background()
	if _, err := cli.usrRepo.GetUserByEmail(ctx, defaultHODEmail); err == nil {
		logger.Println("default HOD already exists; nothing to do")
		return nil
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	if err := cli.addUser(defaultHODName, defaultHODEmail, user.RoleHOD, "", "", cli.conf.BootstrapHODPwd); err != nil {
		return err
	}
	logger.Printf("default HOD created (%s); change its password after first login\n", defaultHODEmail)
	return nil
}

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email string, role user.Role, division, enrollment, pwd string) error {
	var usr user.User
	var err error
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	if usr, err = cli.usrRepo.GetUserByEmail(ctx, email); err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New().String(),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	usr.Name = name
	usr.Avatar = user.AvatarURL(name)
	usr.Role = role
	usr.Division = core.CleanString(division, true /* lower */)
	usr.EnrollmentNo = core.CleanString(enrollment)
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}

package user

import (
	"net/url"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/chuo/core"
)

// Role is the single role a user holds. Grants are per-role lookups,
// not hierarchical inheritance.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCR      Role = "CR" // class representative
	RoleTeacher Role = "TEACHER"
	RoleHOD     Role = "HOD" // head of department
)

var AllRoles = []Role{RoleStudent, RoleCR, RoleTeacher, RoleHOD}

// registrationGrants maps a registrar's role to the roles it may register.
// Kept as data so the rule is independently testable and extensible.
var registrationGrants = map[Role][]Role{
	RoleHOD:     {RoleStudent, RoleCR, RoleTeacher, RoleHOD},
	RoleTeacher: {RoleStudent, RoleCR},
}

// CanRegister reports whether a registrar role may register the target role.
func CanRegister(registrar, target Role) bool {
	for _, allowed := range registrationGrants[registrar] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanCreateSessions reports whether a role may open attendance sessions.
func (r Role) CanCreateSessions() bool {
	return r == RoleTeacher || r == RoleCR || r == RoleHOD
}

// CanPostNotices reports whether a role may publish notices.
func (r Role) CanPostNotices() bool {
	return r != RoleStudent
}

// MenuItem is one entry of the role-driven navigation, served to the
// presentation layer instead of being rebuilt there with conditionals.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var (
	commonMenu = []MenuItem{
		{ID: "dashboard", Label: "Dashboard"},
		{ID: "notices", Label: "Notice Board"},
		{ID: "curriculum", Label: "Curriculum"},
	}

	roleMenus = map[Role][]MenuItem{
		RoleStudent: {
			{ID: "attendance_student", Label: "Mark Attendance"},
			{ID: "marks", Label: "Marks"},
		},
		RoleCR: {
			{ID: "attendance_student", Label: "Mark Attendance"},
			{ID: "marks", Label: "Marks"},
			{ID: "attendance_monitor", Label: "Attendance Monitor"},
		},
		RoleTeacher: {
			{ID: "attendance_teacher", Label: "Attendance Monitor"},
			{ID: "class_management", Label: "Class Management"},
		},
		RoleHOD: {
			{ID: "all_attendance", Label: "All Attendance"},
			{ID: "admin_panel", Label: "Admin Panel"},
		},
	}
)

// MenuFor returns the navigation entries for a role, common entries first.
func MenuFor(role Role) []MenuItem {
	menu := make([]MenuItem, 0, len(commonMenu)+len(roleMenus[role]))
	menu = append(menu, commonMenu...)
	menu = append(menu, roleMenus[role]...)
	return menu
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"` // unique, stored lowercase
	Role           Role      `json:"role"`
	EnrollmentNo   string    `json:"enrollment_no,omitempty"` // students & CRs
	Division       string    `json:"division,omitempty"`
	ClassTeacherID string    `json:"class_teacher_id,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent || u.Role == RoleCR }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsHOD() bool     { return u.Role == RoleHOD }

// AvatarURL generates the avatar reference assigned at registration.
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,oneof=STUDENT CR TEACHER HOD"`
	EnrollmentNo    string `json:"enrollment_no" validate:"omitempty,enrollment"`
	Division        string `json:"division"`
	ClassTeacherID  string `json:"class_teacher_id"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, _ ut.Translator) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.EnrollmentNo = core.CleanString(nu.EnrollmentNo)
	nu.Division = core.CleanString(nu.Division, true /* lower */)
	return validate.Struct(nu)
}

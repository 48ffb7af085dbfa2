package service

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
)

const (
	maxTitleLen    = 200
	maxLocationLen = 300
	maxNameLen     = 30
	maxUsernameLen = 150
	maxPhoneLen    = 15
	minPasswordLen = 8
	maxCapacity    = 100_000

	// bcrypt refuses input longer than this.
	maxPasswordBytes = 72
)

// parseEventInput validates the event form and returns the event it
// describes. Creator and identity fields are left for the caller.
func parseEventInput(in model.EventInput) (model.Event, error) {
	errs := fieldErrors{}
	ev := model.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Category:    model.Category(strings.TrimSpace(in.Category)),
		Visibility:  model.Visibility(strings.TrimSpace(in.Visibility)),
		Capacity:    model.DefaultCapacity,
	}

	switch {
	case ev.Title == "":
		errs.add("title", "This field is required.")
	case utf8.RuneCountInString(ev.Title) > maxTitleLen:
		errs.add("title", "Ensure this value has at most 200 characters.")
	}
	if ev.Description == "" {
		errs.add("description", "This field is required.")
	}
	switch {
	case ev.Location == "":
		errs.add("location", "This field is required.")
	case utf8.RuneCountInString(ev.Location) > maxLocationLen:
		errs.add("location", "Ensure this value has at most 300 characters.")
	}
	if ev.Category == "" {
		errs.add("category", "This field is required.")
	} else if !ev.Category.Valid() {
		errs.add("category", "Select a valid choice.")
	}
	if ev.Visibility == "" {
		ev.Visibility = model.VisibilityPublic
	} else if !ev.Visibility.Valid() {
		errs.add("visibility", "Select a valid choice.")
	}
	if in.Capacity != nil {
		ev.Capacity = *in.Capacity
		if ev.Capacity < 1 {
			errs.add("capacity", "Ensure this value is greater than or equal to 1.")
		} else if ev.Capacity > maxCapacity {
			errs.add("capacity", "Ensure this value is less than or equal to 100000.")
		}
	}

	var startOK, endOK bool
	ev.StartsAt, startOK = parseTime(errs, "starts_at", in.StartsAt)
	ev.EndsAt, endOK = parseTime(errs, "ends_at", in.EndsAt)
	if startOK && endOK && !ev.EndsAt.After(ev.StartsAt) {
		errs.add("ends_at", "The end time must be after the start time.")
	}

	if err := errs.err(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func parseTime(errs fieldErrors, field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.add(field, "This field is required.")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		errs.add(field, "Enter a valid date/time.")
		return time.Time{}, false
	}
	return t.UTC(), true
}

// parseRegistration validates a sign-up form.
func parseRegistration(req model.RegisterRequest) (model.User, model.Role, error) {
	errs := fieldErrors{}
	u := model.User{
		Username:  normalizeUsername(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}

	switch {
	case u.Username == "":
		errs.add("username", "This field is required.")
	case utf8.RuneCountInString(u.Username) > maxUsernameLen:
		errs.add("username", "Ensure this value has at most 150 characters.")
	case strings.ContainsAny(u.Username, " \t\r\n/"):
		errs.add("username", "Enter a valid username.")
	}
	requireName(errs, "first_name", u.FirstName)
	requireName(errs, "last_name", u.LastName)

	if u.Email == "" {
		errs.add("email", "This field is required.")
	} else if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		errs.add("email", "Enter a valid email address.")
	}

	switch {
	case req.Password1 == "":
		errs.add("password1", "This field is required.")
	case utf8.RuneCountInString(req.Password1) < minPasswordLen:
		errs.add("password1", "This password is too short. It must contain at least 8 characters.")
	case len(req.Password1) > maxPasswordBytes:
		errs.add("password1", "This password is too long. It must contain at most 72 bytes.")
	}
	if req.Password2 == "" {
		errs.add("password2", "This field is required.")
	} else if req.Password1 != req.Password2 {
		errs.add("password2", "The two password fields didn't match.")
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		errs.add("role", "Select a valid choice.")
	}

	if err := errs.err(); err != nil {
		return model.User{}, "", err
	}
	u.Profile.Role = role
	return u, role, nil
}

// normalizeUsername folds compatibility forms so visually identical names
// collide on the unique index.
func normalizeUsername(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

func requireName(errs fieldErrors, field, v string) {
	switch {
	case v == "":
		errs.add(field, "This field is required.")
	case utf8.RuneCountInString(v) > maxNameLen:
		errs.add(field, "Ensure this value has at most 30 characters.")
	}
}

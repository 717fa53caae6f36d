package application

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
)

// DateLayout is the wire format of dose dates.
const DateLayout = "2006-01-02"

// VaccinationKeys are the response keys stripped by FetchObject unless
// vaccination data was asked for.
var VaccinationKeys = []string{
	"vaccine_name",
	"first_doze_taken",
	"first_doze_date",
	"second_doze_taken",
	"second_doze_date",
	"is_fully_vaccinated",
}

// Sanitize renders u for clients. Password and deletion data never leave the service.
func Sanitize(u *entity.User, withVaccination bool) map[string]any {
	out := map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"gender":       u.Gender,
		"age":          u.Age,
		"phone_number": u.PhoneNumber,
		"account_type": u.AccountType,
	}
	if !withVaccination {
		return out
	}
	out["vaccine_name"] = u.VaccineName
	out["first_doze_taken"] = u.FirstDozeTaken
	out["first_doze_date"] = formatDate(u.FirstDozeDate)
	out["second_doze_taken"] = u.SecondDozeTaken
	out["second_doze_date"] = formatDate(u.SecondDozeDate)
	out["is_fully_vaccinated"] = u.IsFullyVaccinated
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseFilterValue converts a raw query value to the Go type of column.
func ParseFilterValue(column, raw string) (any, error) {
	switch column {
	case "id", "age":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, paramErr(fmt.Sprintf("%s must be an integer", column))
		}
		return n, nil
	case "email", "name", "gender", "phone_number", "account_type", "vaccine_name":
		return raw, nil
	case "first_doze_taken", "second_doze_taken", "is_fully_vaccinated":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, paramErr(fmt.Sprintf("%s must be a boolean", column))
		}
		return b, nil
	case "first_doze_date", "second_doze_date":
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, paramErr(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", column))
		}
		return t, nil
	}
	return nil, paramErr(fmt.Sprintf("cannot filter by %q", column))
}

// Package merge combines field values from several sources before
// substitution.
package merge

import (
	"template-composer/internal/contact"
	"template-composer/internal/model"
)

// Merge returns a new map holding every key of both inputs. User-entered
// values override contact-derived ones.
func Merge(contactValues, userValues model.ValueMap) model.ValueMap {
	out := make(model.ValueMap, len(contactValues)+len(userValues))
	for k, v := range contactValues {
		out[k] = v
	}
	for k, v := range userValues {
		out[k] = v
	}
	return out
}

// ContactValues exposes c under both naming conventions, dotted
// (contact.firstName) and underscored (contact_first_name).
func ContactValues(c contact.Contact) model.ValueMap {
	values := model.ValueMap{}
	set := func(dotted, underscored, value string) {
		values["contact."+dotted] = value
		values["contact_"+underscored] = value
	}
	set("firstName", "first_name", c.FirstName)
	set("lastName", "last_name", c.LastName)
	set("displayName", "display_name", c.DisplayName)
	set("name", "name", c.DisplayName)
	set("email", "email", c.Email)
	return values
}

package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Club{},
		&Applicant{},
		&Form{},
		&Question{},
		&Post{},
		&PostImage{},
		&Recruiting{},
		&MeetingTime{},
		&Application{},
		&Response{},
	)
}

package constvars

var CustomValidationErrorMessages = map[string]string{
	"required":       "is required",
	"min":            "must be at least %s",
	"max":            "must be at most %s",
	"len":            "must be %s characters long",
	"oneof":          "must be one of [%s]",
	"gt":             "must be greater than %s",
	"gte":            "must be greater than or equal to %s",
	"lt":             "must be less than %s",
	"lte":            "must be less than or equal to %s",
	"datetime":       "must be a valid timestamp",
	"future_time":    "must be a future time",
	"consult_length": "must be one of the supported consultation durations",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"len":   true,
	"oneof": true,
	"gt":    true,
	"gte":   true,
	"lt":    true,
	"lte":   true,
}

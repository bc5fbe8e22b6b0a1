package config

import "fmt"

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// configuration (e.g. "db.host"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config and returns a list of
// issues. Callers decide whether warnings are fatal.
//
// Source and sink are validated independently so the standalone checks
// (extract-only, transform-only) can ignore findings for the half they do not
// touch; ValidateSource and ValidateSink expose the halves directly.
func Validate(c Config) []Issue {
	issues := ValidateSource(c.S3)
	issues = append(issues, ValidateSink(c.DB)...)
	return issues
}

// ValidateSource checks the object-store half of the configuration.
func ValidateSource(s S3Config) []Issue {
	var issues []Issue
	if s.AccessKeyID == "" {
		issues = append(issues, errIssue("s3.access_key_id", "AWS_ACCESS_KEY_ID must be set"))
	}
	if s.SecretAccessKey == "" {
		issues = append(issues, errIssue("s3.secret_access_key", "AWS_SECRET_ACCESS_KEY must be set"))
	}
	if s.Region == "" && s.Endpoint == "" {
		issues = append(issues, errIssue("s3.region", "AWS_REGION must be set (or S3_ENDPOINT for a non-AWS store)"))
	}
	if s.Bucket == "" {
		issues = append(issues, errIssue("s3.bucket", "AWS_BUCKET_NAME must be set"))
	}
	if s.Key == "" {
		issues = append(issues, errIssue("s3.key", "S3_OBJECT_KEY must not be empty"))
	}
	return issues
}

// ValidateSink checks the relational-store half of the configuration.
func ValidateSink(d DBConfig) []Issue {
	var issues []Issue
	if d.Host == "" {
		issues = append(issues, errIssue("db.host", "DB_HOST must be set"))
	}
	if d.Name == "" {
		issues = append(issues, errIssue("db.name", "DB_NAME must be set"))
	}
	if d.User == "" {
		issues = append(issues, errIssue("db.user", "DB_USER must be set"))
	}
	if d.Password == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "db.password",
			Message:  "DB_PASSWORD is empty; relying on host auth",
		})
	}
	return issues
}

func errIssue(path, msg string) Issue {
	return Issue{Severity: SeverityError, Path: path, Message: msg}
}

// HasError reports whether any issue in the list is an error.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

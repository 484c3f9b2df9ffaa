// Package valueobject contains the self-validating scalars of the user
// domain. Each constructor is the single place its rules live; adapters that
// want to pre-validate input call these constructors instead of copying rules.
package valueobject

import "github.com/go-playground/validator/v10"

var validate = validator.New()

package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrChecksumMismatch = errors.New("plugin checksum mismatch")

var validate = validator.New()

// ManifestFile is the file name looked up inside a plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes an executable plugin served over go-plugin.
type Manifest struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version"`
	Binary  string `json:"binary" validate:"required"`
	SHA256  string `json:"sha256,omitempty" validate:"omitempty,len=64,hexadecimal,lowercase"`
}

func (m Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return manifestFieldError(fieldErrs[0])
		}
		return fmt.Errorf("validate plugin manifest: %w", err)
	}
	return nil
}

func manifestFieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Name":
		return fmt.Errorf("plugin name is required")
	case "Binary":
		return fmt.Errorf("plugin binary path is required")
	case "SHA256":
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	default:
		return fmt.Errorf("plugin manifest field %s failed %s", fe.Field(), fe.Tag())
	}
}

// Operation is one host mutation a remote plugin asks for during install.
type Operation struct {
	Method string `validate:"oneof=set option data define enable disable del"`
	Key    string `validate:"required"`
	Value  string
}

func (o Operation) Validate() error {
	if err := validate.Struct(o); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Key" {
			return fmt.Errorf("%s operation requires a key", o.Method)
		}
		return fmt.Errorf("unknown plugin operation: %s", o.Method)
	}
	return nil
}

// Package queries defines one read query per GraphQL root field.
package queries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"graphryder-api/domain/graph"
	pkgerrors "graphryder-api/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags and converts failures to a VALIDATION error
// naming every offending field.
func validateStruct(q any) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerrors.NewValidationError(err.Error())
	}

	fields := make(map[string]interface{}, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe.Field())
		fields[name] = fe.Tag()
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", name, fe.Tag()))
	}
	return pkgerrors.NewValidationError(strings.Join(msgs, "; ")).
		WithDetails(map[string]interface{}{"fields": fields})
}

// fieldName maps a Go field name onto the GraphQL argument name.
func fieldName(goName string) string {
	switch goName {
	case "TagName":
		return "tagName"
	case "ID":
		return "id"
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

// ListPlatformsQuery lists every platform.
type ListPlatformsQuery struct{}

func (q ListPlatformsQuery) Validate() error { return nil }

// TagsByPlatformQuery lists the tags of one platform.
type TagsByPlatformQuery struct {
	Platform string `validate:"max=255"`
}

func (q TagsByPlatformQuery) Validate() error { return validateStruct(q) }

// UsersByPlatformQuery lists the user accounts of one platform.
type UsersByPlatformQuery struct {
	Platform string `validate:"max=255"`
}

func (q UsersByPlatformQuery) Validate() error { return validateStruct(q) }

// CorpusByPlatformQuery lists the corpus tags of one platform.
type CorpusByPlatformQuery struct {
	Platform string `validate:"max=255"`
}

func (q CorpusByPlatformQuery) Validate() error { return validateStruct(q) }

// CooccurrenceByCorpusQuery computes code co-occurrence inside a corpus.
type CooccurrenceByCorpusQuery struct {
	TagName  string `validate:"max=255"`
	Platform string `validate:"max=255"`
}

func (q CooccurrenceByCorpusQuery) Validate() error { return validateStruct(q) }

// UserInteractionGraphByCorpusQuery computes reply/quote interactions inside a corpus.
type UserInteractionGraphByCorpusQuery struct {
	TagName  string `validate:"max=255"`
	Platform string `validate:"max=255"`
}

func (q UserInteractionGraphByCorpusQuery) Validate() error { return validateStruct(q) }

// TagByNameQuery looks up a single tag.
type TagByNameQuery struct {
	TagName  string `validate:"max=255"`
	Platform string `validate:"max=255"`
}

func (q TagByNameQuery) Validate() error { return validateStruct(q) }

// NodeByIDQuery looks up a single node by internal identity. An identity that
// names no node, negative ones included, is not found rather than invalid.
type NodeByIDQuery struct {
	Label graph.Label `validate:"required"`
	ID    int64
}

func (q NodeByIDQuery) Validate() error {
	if err := validateStruct(q); err != nil {
		return err
	}
	if !q.Label.Valid() {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown label %q", q.Label))
	}
	return nil
}

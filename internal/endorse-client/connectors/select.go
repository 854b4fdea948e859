package connectors

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
)

type Selection struct {
	Descriptor Descriptor
	// Handoff is set for deep-link connectors; no in-page session follows.
	Handoff bool
}

// Select picks the connector for a connect attempt. It has no side effects.
func Select(env environment.Environment, descriptors []Descriptor, choice string) (Selection, error) {
	if env.Embedded {
		return Selection{}, ErrEnvironmentBlocked
	}

	for _, d := range descriptors {
		if !d.Flags.Has(FlagPriority) {
			continue
		}
		marker := d.Global
		if marker == "" {
			marker = d.ID
		}
		if env.Has(marker) {
			return newSelection(d), nil
		}
	}

	if len(descriptors) == 0 {
		return Selection{}, ErrNoProviderFound
	}

	choice = strings.TrimSpace(choice)
	if choice == "" {
		return Selection{}, ErrChoiceRequired
	}
	for _, d := range descriptors {
		if strings.EqualFold(d.ID, choice) {
			return newSelection(d), nil
		}
	}
	return Selection{}, errors.Wrapf(ErrNoProviderFound, "connector %q", choice)
}

func newSelection(d Descriptor) Selection {
	return Selection{
		Descriptor: d,
		Handoff:    d.Kind == KindExternalDeepLink || d.Flags.Has(FlagDeepLink),
	}
}

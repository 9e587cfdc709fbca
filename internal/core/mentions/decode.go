package mentions

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
)

// bech32 human-readable prefixes.
const (
	prefixNote     = "note"
	prefixNevent   = "nevent"
	prefixNpub     = "npub"
	prefixNprofile = "nprofile"
)

// Decoder converts between bech32 entities and hex identifiers.
type Decoder interface {
	// NoteID returns the hex event id of a note1 or nevent1 entity.
	NoteID(entity string) (string, error)
	// PubKey returns the hex public key of an npub1 or nprofile1 entity.
	PubKey(entity string) (string, error)
	// EncodeNote returns the note1 form of a hex event id.
	EncodeNote(hexID string) (string, error)
	// EncodePubKey returns the npub1 form of a hex public key.
	EncodePubKey(hexKey string) (string, error)
}

// NIP19 is the Decoder backed by go-nostr's NIP-19 implementation.
type NIP19 struct{}

var _ Decoder = NIP19{}

func (NIP19) NoteID(entity string) (string, error) {
	prefix, value, err := nip19.Decode(entity)
	if err != nil {
		return "", fmt.Errorf("%w: decode %q: %w", coreerrors.ErrMalformedReference, entity, err)
	}

	switch prefix {
	case prefixNote:
		return hexValue(entity, value)
	case prefixNevent:
		switch ptr := value.(type) {
		case nostr.EventPointer:
			return ptr.ID, nil
		case *nostr.EventPointer:
			return ptr.ID, nil
		}

		return "", fmt.Errorf("%w: %T in %q", coreerrors.ErrUnexpectedType, value, entity)
	}

	return "", fmt.Errorf("%w: %s is not a note", coreerrors.ErrUnsupportedEntity, prefix)
}

func (NIP19) PubKey(entity string) (string, error) {
	prefix, value, err := nip19.Decode(entity)
	if err != nil {
		return "", fmt.Errorf("%w: decode %q: %w", coreerrors.ErrMalformedReference, entity, err)
	}

	switch prefix {
	case prefixNpub:
		return hexValue(entity, value)
	case prefixNprofile:
		switch ptr := value.(type) {
		case nostr.ProfilePointer:
			return ptr.PublicKey, nil
		case *nostr.ProfilePointer:
			return ptr.PublicKey, nil
		}

		return "", fmt.Errorf("%w: %T in %q", coreerrors.ErrUnexpectedType, value, entity)
	}

	return "", fmt.Errorf("%w: %s is not a profile", coreerrors.ErrUnsupportedEntity, prefix)
}

func (NIP19) EncodeNote(hexID string) (string, error) {
	note, err := nip19.EncodeNote(hexID)
	if err != nil {
		return "", fmt.Errorf("encode note %q: %w", hexID, err)
	}

	return note, nil
}

func (NIP19) EncodePubKey(hexKey string) (string, error) {
	npub, err := nip19.EncodePublicKey(hexKey)
	if err != nil {
		return "", fmt.Errorf("encode pubkey %q: %w", hexKey, err)
	}

	return npub, nil
}

func hexValue(entity string, value any) (string, error) {
	hex, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T in %q", coreerrors.ErrUnexpectedType, value, entity)
	}

	return hex, nil
}

/*
NAME
  descriptor.go

DESCRIPTION
  Decoders for the four descriptor types this package understands:
  Short-Event (0x4D), Extended-Event (0x4E), Stream-Identifier (0x52) and
  Content (0x54). All other tags are left as opaque Descriptor values.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import "github.com/pkg/errors"

// ShortEvent is a decoded Short-Event descriptor (tag 0x4D). EventName and
// Text are raw ARIB-encoded bytes; they are never UTF-8 and must be passed
// through the ARIB string decoder.
type ShortEvent struct {
	Language  [3]byte
	EventName []byte
	Text      []byte
}

// ParseShortEvent decodes a Short-Event descriptor.
func ParseShortEvent(d Descriptor) (*ShortEvent, error) {
	if d.Tag != TagShortEvent {
		return nil, ErrWrongTableID
	}
	b := d.Data
	if len(b) < 4 {
		return nil, ErrShortSection
	}
	se := &ShortEvent{Language: [3]byte{b[0], b[1], b[2]}}
	nameLen := int(b[3])
	if len(b) < 4+nameLen+1 {
		return nil, ErrShortSection
	}
	se.EventName = b[4 : 4+nameLen]
	textLen := int(b[4+nameLen])
	if len(b) < 4+nameLen+1+textLen {
		return nil, ErrShortSection
	}
	se.Text = b[4+nameLen+1 : 4+nameLen+1+textLen]
	return se, nil
}

// ExtendedEventItem is one (description, item) pair of an Extended-Event
// descriptor, both raw ARIB-encoded bytes.
type ExtendedEventItem struct {
	Description []byte
	Item        []byte
}

// ExtendedEvent is a decoded Extended-Event descriptor (tag 0x4E). A single
// event's extended description may span several consecutive descriptors
// (DescriptorNumber 0..LastDescriptorNumber); callers reassemble the full
// item list by concatenating items whose Description is empty onto the
// preceding non-empty one, across descriptors.
type ExtendedEvent struct {
	DescriptorNumber     uint8
	LastDescriptorNumber uint8
	Language             [3]byte
	Items                []ExtendedEventItem
	Text                 []byte
}

// ParseExtendedEvent decodes an Extended-Event descriptor.
func ParseExtendedEvent(d Descriptor) (*ExtendedEvent, error) {
	if d.Tag != TagExtendedEvent {
		return nil, ErrWrongTableID
	}
	b := d.Data
	if len(b) < 5 {
		return nil, ErrShortSection
	}
	ee := &ExtendedEvent{
		DescriptorNumber:     b[0] >> 4,
		LastDescriptorNumber: b[0] & 0x0F,
		Language:             [3]byte{b[1], b[2], b[3]},
	}
	itemsLen := int(b[4])
	if len(b) < 5+itemsLen+1 {
		return nil, ErrShortSection
	}
	items := b[5 : 5+itemsLen]
	for len(items) > 0 {
		if len(items) < 1 {
			return nil, ErrShortSection
		}
		descLen := int(items[0])
		if len(items) < 1+descLen+1 {
			return nil, ErrShortSection
		}
		desc := items[1 : 1+descLen]
		itemLen := int(items[1+descLen])
		if len(items) < 1+descLen+1+itemLen {
			return nil, ErrShortSection
		}
		item := items[1+descLen+1 : 1+descLen+1+itemLen]
		ee.Items = append(ee.Items, ExtendedEventItem{Description: desc, Item: item})
		items = items[1+descLen+1+itemLen:]
	}
	textLen := int(b[5+itemsLen])
	if len(b) < 5+itemsLen+1+textLen {
		return nil, ErrShortSection
	}
	ee.Text = b[5+itemsLen+1 : 5+itemsLen+1+textLen]
	return ee, nil
}

// Genre is an ARIB content genre, the high nibble of a Content descriptor
// item.
type Genre uint8

// Genre values per ARIB STD-B10 Annex H, lower-cased to match the CLI's
// JSON output.
const (
	GenreNews Genre = iota
	GenreSports
	GenreInformation
	GenreDrama
	GenreMusic
	GenreVariety
	GenreMovies
	GenreAnimation
	GenreDocumentary
	GenreTheatre
	GenreHobby
	GenreWelfare
	GenreReserved1
	GenreReserved2
	GenreExtension
	GenreOthers
)

// String returns the lowercase enum name used in CLI JSON output.
func (g Genre) String() string {
	switch g {
	case GenreNews:
		return "news"
	case GenreSports:
		return "sports"
	case GenreInformation:
		return "information"
	case GenreDrama:
		return "drama"
	case GenreMusic:
		return "music"
	case GenreVariety:
		return "variety"
	case GenreMovies:
		return "movies"
	case GenreAnimation:
		return "animation"
	case GenreDocumentary:
		return "documentary"
	case GenreTheatre:
		return "theatre"
	case GenreHobby:
		return "hobby"
	case GenreWelfare:
		return "welfare"
	case GenreExtension:
		return "extention" // ARIB's own misspelling, kept verbatim
	case GenreOthers:
		return "others"
	default:
		return "reserved"
	}
}

// ContentItem is one nibble pair of a Content descriptor.
type ContentItem struct {
	Genre      Genre
	UserNibble uint8
}

// Content is a decoded Content descriptor (tag 0x54).
type Content struct {
	Items []ContentItem
}

// ParseContent decodes a Content descriptor.
func ParseContent(d Descriptor) (*Content, error) {
	if d.Tag != TagContent {
		return nil, ErrWrongTableID
	}
	c := &Content{}
	for _, b := range d.Data {
		c.Items = append(c.Items, ContentItem{
			Genre:      Genre(b >> 4),
			UserNibble: b & 0x0F,
		})
	}
	return c, nil
}

// StreamIdentifier is a decoded Stream-Identifier descriptor (tag 0x52).
type StreamIdentifier struct {
	ComponentTag uint8
}

// ParseStreamIdentifier decodes a Stream-Identifier descriptor.
func ParseStreamIdentifier(d Descriptor) (*StreamIdentifier, error) {
	if d.Tag != TagStreamIdentifer {
		return nil, ErrWrongTableID
	}
	if len(d.Data) < 1 {
		return nil, errors.Wrap(ErrShortSection, "stream identifier")
	}
	return &StreamIdentifier{ComponentTag: d.Data[0]}, nil
}

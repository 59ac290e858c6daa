/*
NAME
  caption.go

DESCRIPTION
  DataGroup framing for ARIB caption and superimposition streams:
  CaptionManagementData (language table, timing mode), CaptionData (one
  caption's data units), and the DRCS data structure that defines
  downloadable glyphs.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import "fmt"

// TMD is the time control mode carried by a management or caption data
// group: whether its timing is free-running, wall-clock real-time, or
// an offset from a reference.
type TMD uint8

const (
	TMDFree TMD = iota
	TMDRealTime
	TMDOffsetTime
	TMDReserved
)

func tmdFrom(b byte) TMD {
	switch b & 0x3 {
	case 0b00:
		return TMDFree
	case 0b01:
		return TMDRealTime
	case 0b10:
		return TMDOffsetTime
	default:
		return TMDReserved
	}
}

// TCS is a language's text coding scheme.
type TCS uint8

const (
	TCSChar8 TCS = iota
	TCSUCS
	TCSReserved
)

func tcsFrom(b byte) TCS {
	switch b & 0x3 {
	case 0b00:
		return TCSChar8
	case 0b01:
		return TCSUCS
	default:
		return TCSReserved
	}
}

// RollupMode is a language's display mode: scrolling (rollup) or fixed.
type RollupMode uint8

const (
	RollupModeNone RollupMode = iota
	RollupModeRollup
	RollupModeReserved
)

func rollupModeFrom(b byte) RollupMode {
	switch b & 0x3 {
	case 0b00:
		return RollupModeNone
	case 0b01:
		return RollupModeRollup
	default:
		return RollupModeReserved
	}
}

// Time is a BCD-encoded h:m:s.ms timestamp used by OTM/STM fields.
type Time struct {
	Hour, Minute, Second, Millisecond int
}

func parseTime(b []byte) (Time, error) {
	if len(b) < 5 {
		return Time{}, &MalformedShortBytesError{Context: "caption time truncated"}
	}
	return Time{
		Hour:        bcd2(b[0]),
		Minute:      bcd2(b[1]),
		Second:      bcd2(b[2]),
		Millisecond: bcd2(b[3])*10 + int(b[4]>>4),
	}, nil
}

func bcd2(b byte) int { return int(b>>4)*10 + int(b&0xF) }

// Language describes one caption language's data_group_id mapping: its
// display format, coding scheme, and rollup behaviour.
type Language struct {
	LanguageTag        uint8
	DMF                uint8
	DC                 *uint8
	ISO639LanguageCode string
	Format             uint8
	TCS                TCS
	RollupMode         RollupMode
}

// parseLanguage parses one language entry and returns how many bytes it
// consumed, so the caller can step through a table of them.
func parseLanguage(b []byte) (Language, int, error) {
	if len(b) < 5 {
		return Language{}, 0, &MalformedShortBytesError{Context: "language entry truncated"}
	}
	lang := Language{
		LanguageTag: b[0] >> 5,
		DMF:         b[0] & 0xF,
	}
	rest := b[1:]
	n := 1
	switch lang.DMF {
	case 0b1100, 0b1101, 0b1110:
		dc := rest[0]
		lang.DC = &dc
		rest = rest[1:]
		n++
	}
	if len(rest) < 4 {
		return Language{}, 0, &MalformedShortBytesError{Context: "language entry truncated"}
	}
	lang.ISO639LanguageCode = string(rest[0:3])
	lang.Format = rest[3] >> 4
	lang.TCS = tcsFrom(rest[3] >> 2)
	lang.RollupMode = rollupModeFrom(rest[3])
	n += 4
	return lang, n, nil
}

// DataUnitParameter identifies what kind of payload a DataUnit carries.
type DataUnitParameter uint8

const (
	DataUnitText DataUnitParameter = iota
	DataUnitGeometric
	DataUnitAdditionalSound
	DataUnitDRCS1
	DataUnitDRCS2
	DataUnitColorMap
	DataUnitBitmap
	DataUnitUnknown
)

func dataUnitParameterFrom(b byte) DataUnitParameter {
	switch b {
	case 0x20:
		return DataUnitText
	case 0x28:
		return DataUnitGeometric
	case 0x2C:
		return DataUnitAdditionalSound
	case 0x30:
		return DataUnitDRCS1
	case 0x31:
		return DataUnitDRCS2
	case 0x34:
		return DataUnitColorMap
	case 0x35:
		return DataUnitBitmap
	default:
		return DataUnitUnknown
	}
}

// DataUnit is one unit of caption data: text, DRCS definitions, or one
// of the other ARIB data-unit kinds.
type DataUnit struct {
	UnitSeparator     uint8
	DataUnitParameter DataUnitParameter
	Data              []byte
}

// parseDataUnit parses one data unit and returns how many bytes it
// consumed (its 5-byte header plus its body).
func parseDataUnit(b []byte) (DataUnit, int, error) {
	if len(b) < 5 {
		return DataUnit{}, 0, &MalformedShortBytesError{Context: "data unit header truncated"}
	}
	size := int(b[2])<<16 | int(b[3])<<8 | int(b[4])
	if len(b) < 5+size {
		return DataUnit{}, 0, &MalformedShortBytesError{Context: "data unit body truncated"}
	}
	return DataUnit{
		UnitSeparator:     b[0],
		DataUnitParameter: dataUnitParameterFrom(b[1]),
		Data:              b[5 : 5+size],
	}, 5 + size, nil
}

func parseDataUnits(b []byte) ([]DataUnit, error) {
	var units []DataUnit
	for len(b) > 0 {
		du, n, err := parseDataUnit(b)
		if err != nil {
			return nil, err
		}
		units = append(units, du)
		b = b[n:]
	}
	return units, nil
}

// CaptionManagementData is the data group that precedes a caption
// stream's actual text: it names the languages present and, if the
// stream uses offset timing, the time offset everything else is
// relative to.
type CaptionManagementData struct {
	TMD       TMD
	OTM       *Time
	Languages []Language
	DataUnits []DataUnit
}

func parseCaptionManagementData(b []byte) (CaptionManagementData, error) {
	if len(b) < 1 {
		return CaptionManagementData{}, &MalformedShortBytesError{Context: "caption management data empty"}
	}
	tmd := tmdFrom(b[0] >> 6)
	var otm *Time
	if tmd == TMDOffsetTime {
		t, err := parseTime(b[1:])
		if err != nil {
			return CaptionManagementData{}, err
		}
		otm = &t
		b = b[6:]
	} else {
		b = b[1:]
	}
	if len(b) < 1 {
		return CaptionManagementData{}, &MalformedShortBytesError{Context: "caption management data missing language count"}
	}
	numLanguages := int(b[0])
	b = b[1:]
	languages := make([]Language, 0, numLanguages)
	for i := 0; i < numLanguages; i++ {
		lang, n, err := parseLanguage(b)
		if err != nil {
			return CaptionManagementData{}, err
		}
		languages = append(languages, lang)
		b = b[n:]
	}
	if len(b) < 3 {
		return CaptionManagementData{}, &MalformedShortBytesError{Context: "caption management data missing data-unit loop length"}
	}
	loopLen := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	b = b[3:]
	if len(b) < loopLen {
		return CaptionManagementData{}, &MalformedShortBytesError{Context: "caption management data-unit loop truncated"}
	}
	units, err := parseDataUnits(b[:loopLen])
	if err != nil {
		return CaptionManagementData{}, err
	}
	return CaptionManagementData{TMD: tmd, OTM: otm, Languages: languages, DataUnits: units}, nil
}

// CaptionData is one caption data group's payload: its data units,
// tagged with the timing mode and (for real-time or offset timing) the
// start time they apply from.
type CaptionData struct {
	TMD       TMD
	STM       *Time
	DataUnits []DataUnit
}

func parseCaptionData(b []byte) (CaptionData, error) {
	if len(b) < 1 {
		return CaptionData{}, &MalformedShortBytesError{Context: "caption data empty"}
	}
	tmd := tmdFrom(b[0] >> 6)
	var stm *Time
	if tmd == TMDRealTime || tmd == TMDOffsetTime {
		t, err := parseTime(b[1:])
		if err != nil {
			return CaptionData{}, err
		}
		stm = &t
		b = b[6:]
	} else {
		b = b[1:]
	}
	if len(b) < 3 {
		return CaptionData{}, &MalformedShortBytesError{Context: "caption data missing data-unit loop length"}
	}
	loopLen := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	b = b[3:]
	if len(b) < loopLen {
		return CaptionData{}, &MalformedShortBytesError{Context: "caption data-unit loop truncated"}
	}
	units, err := parseDataUnits(b[:loopLen])
	if err != nil {
		return CaptionData{}, err
	}
	return CaptionData{TMD: tmd, STM: stm, DataUnits: units}, nil
}

// DataGroupData is either a CaptionManagementData or a CaptionData body,
// distinguished by the data group's ID.
type DataGroupData struct {
	ManagementData *CaptionManagementData
	CaptionData    *CaptionData
}

// DataGroup is the outermost caption framing unit carried in an ARIB
// private-data PES payload.
type DataGroup struct {
	DataGroupID             uint8
	DataGroupVersion        uint8
	DataGroupLinkNumber     uint8
	LastDataGroupLinkNumber uint8
	Data                    DataGroupData
	CRC16                   uint16
}

// ParseDataGroup parses a DataGroup. A data_group_id of 0x00 or 0x20
// identifies the first group of a sequence as CaptionManagementData;
// every other ID is CaptionData.
func ParseDataGroup(b []byte) (*DataGroup, error) {
	if len(b) < 5 {
		return nil, &MalformedShortBytesError{Context: "data group header truncated"}
	}
	id := b[0] >> 2
	version := b[0] & 0x3
	linkNumber := b[1]
	lastLinkNumber := b[2]
	size := int(b[3])<<8 | int(b[4])
	if len(b) < 5+size+2 {
		return nil, &MalformedShortBytesError{Context: "data group body truncated"}
	}
	body := b[5 : 5+size]

	var data DataGroupData
	if id == 0x0 || id == 0x20 {
		md, err := parseCaptionManagementData(body)
		if err != nil {
			return nil, err
		}
		data.ManagementData = &md
	} else {
		cd, err := parseCaptionData(body)
		if err != nil {
			return nil, err
		}
		data.CaptionData = &cd
	}

	crc := uint16(b[5+size])<<8 | uint16(b[5+size+1])
	return &DataGroup{
		DataGroupID:             id,
		DataGroupVersion:        version,
		DataGroupLinkNumber:     linkNumber,
		LastDataGroupLinkNumber: lastLinkNumber,
		Data:                    data,
		CRC16:                   crc,
	}, nil
}

// Font is one DRCS glyph: a fixed-depth bitmap pattern at a given
// width/height, identified within its Code by FontID.
type Font struct {
	FontID      uint8
	Depth       uint8
	Width       uint8
	Height      uint8
	PatternData []byte
}

// Code is one DRCS character code's set of font variants (TR-B14
// typically defines exactly one font per code).
type Code struct {
	CharacterCode uint16
	Fonts         []Font
}

// DRCSDataStructure is the decoded body of a DRCS1/DRCS2 data unit: the
// downloadable glyph definitions a caption stream supplies for the
// DRCS(n) charsets it designates.
type DRCSDataStructure struct {
	Codes []Code
}

// ParseDRCSDataStructure parses a DRCS1/DRCS2 data unit body. TR-B14
// requires every font's mode to be 1 and depth to be 2; either
// violation is fatal, matching TR-B14's own requirement rather than a
// recoverable decode error.
func ParseDRCSDataStructure(b []byte) (*DRCSDataStructure, error) {
	if len(b) < 1 {
		return nil, &MalformedShortBytesError{Context: "DRCS data structure empty"}
	}
	numberOfCode := int(b[0])
	b = b[1:]
	codes := make([]Code, 0, numberOfCode)
	for i := 0; i < numberOfCode; i++ {
		if len(b) < 3 {
			return nil, &MalformedShortBytesError{Context: "DRCS code header truncated"}
		}
		characterCode := uint16(b[0])<<8 | uint16(b[1])
		numberOfFont := int(b[2])
		b = b[3:]
		fonts := make([]Font, 0, numberOfFont)
		for j := 0; j < numberOfFont; j++ {
			if len(b) < 4 {
				return nil, &MalformedShortBytesError{Context: "DRCS font header truncated"}
			}
			fontID := b[0] >> 4
			mode := b[0] & 0xF
			if mode != 1 {
				return nil, fmt.Errorf("arib: DRCS font mode must be 1 per TR-B14, got %d", mode)
			}
			depth := b[1]
			if depth != 2 {
				return nil, fmt.Errorf("arib: DRCS font depth must be 2 per TR-B14, got %d", depth)
			}
			width, height := b[2], b[3]
			b = b[4:]
			patternLen := int(width) * int(height) / 4
			if len(b) < patternLen {
				return nil, &MalformedShortBytesError{Context: "DRCS pattern data truncated"}
			}
			fonts = append(fonts, Font{
				FontID:      fontID,
				Depth:       depth,
				Width:       width,
				Height:      height,
				PatternData: b[:patternLen],
			})
			b = b[patternLen:]
		}
		codes = append(codes, Code{CharacterCode: characterCode, Fonts: fonts})
	}
	return &DRCSDataStructure{Codes: codes}, nil
}

/*
NAME
  time.go

DESCRIPTION
  EIT start_time (16-bit Modified Julian Date + 3-byte BCD HH:MM:SS) and
  duration (3-byte BCD HH:MM:SS) decoding, both in JST (UTC+9).

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

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
)

// JST is UTC+9, the zone EIT start_time and duration fields are expressed in.
var JST = time.FixedZone("JST", 9*60*60)

// ErrUndefinedTime is returned by DecodeStartTime when the 5-byte field is
// all-ones, meaning "undefined" per ARIB STD-B10.
var ErrUndefinedTime = errors.New("psi: start_time is undefined")

func bcdByte(b byte) int { return int(b>>4)*10 + int(b&0x0F) }

// DecodeStartTime decodes the 5-byte EIT start_time field: a 16-bit
// Modified Julian Date followed by 3 BCD-encoded HH:MM:SS bytes, both in
// JST. An all-ones field means "undefined" and returns ErrUndefinedTime.
func DecodeStartTime(b []byte) (time.Time, error) {
	if len(b) < 5 {
		return time.Time{}, ErrShortSection
	}
	if b[0] == 0xFF && b[1] == 0xFF && b[2] == 0xFF && b[3] == 0xFF && b[4] == 0xFF {
		return time.Time{}, ErrUndefinedTime
	}
	mjd := binary.BigEndian.Uint16(b[0:2])
	year, month, day := mjdToGregorian(mjd)
	hour := bcdByte(b[2])
	min := bcdByte(b[3])
	sec := bcdByte(b[4])
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, JST), nil
}

// DecodeDuration decodes the 3-byte BCD HH:MM:SS duration field. An
// all-ones field means "undefined" and returns ErrUndefinedTime.
func DecodeDuration(b []byte) (time.Duration, error) {
	if len(b) < 3 {
		return 0, ErrShortSection
	}
	if b[0] == 0xFF && b[1] == 0xFF && b[2] == 0xFF {
		return 0, ErrUndefinedTime
	}
	h := bcdByte(b[0])
	m := bcdByte(b[1])
	s := bcdByte(b[2])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, nil
}

// mjdToGregorian converts a Modified Julian Date to a Gregorian
// (year, month, day), using the standard MJD->Gregorian algorithm.
func mjdToGregorian(mjd uint16) (year, month, day int) {
	jd := int(mjd) + 2400001
	f := jd + 1401 + (4*jd+274277)/146097*3/4 - 38
	e := 4*f + 3
	g := (e % 1461) / 4
	h := 5*g + 2
	day = (h%153)/5 + 1
	month = (h/153+2)%12 + 1
	year = e/1461 - 4716 + (14-month)/12
	return year, month, day
}

// gregorianToMJD is the inverse of mjdToGregorian, used only to verify the
// round-trip invariant in tests.
func gregorianToMJD(year, month, day int) uint16 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
	return uint16(jdn - 2400001)
}

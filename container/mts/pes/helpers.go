/*
DESCRIPTIONS
  helpers.go provides PES stream-id classification helpers.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pes

// Stream id ranges assigned by ISO/IEC 13818-1 Table 2-18, plus the
// private_stream_1 id ARIB uses to carry closed-caption DataGroups.
const (
	SIDAudioLo             = 0xC0
	SIDAudioHi             = 0xDF
	SIDVideoLo             = 0xE0
	SIDVideoHi             = 0xEF
	SIDPrivateStream1      = 0xBD // ARIB synchronized caption data
)

// IsAudio reports whether a stream_id denotes an audio elementary stream.
func IsAudio(id byte) bool { return id >= SIDAudioLo && id <= SIDAudioHi }

// IsVideo reports whether a stream_id denotes a video elementary stream.
func IsVideo(id byte) bool { return id >= SIDVideoLo && id <= SIDVideoHi }

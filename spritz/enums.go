package spritz

// Playback status of the RSVP stream.
// ENUM(stopped, playing, paused)
type PlaybackState int

// Pause class derived from a word's trailing punctuation.
// ENUM(none, sentence, comma)
type PunctClass int

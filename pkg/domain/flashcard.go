package domain

import "time"

// Flashcard is one flashcard row produced from a single transcript segment.
type Flashcard struct {
	Sentence    string `bson:"sentence" json:"sentence"`
	Translation string `bson:"translation" json:"translation"`
	Notes       string `bson:"notes" json:"notes"`

	// Audio references the transcript's audio file, e.g. "[sound:interview-01]".
	Audio string `bson:"audio" json:"audio"`

	// Segment is the position of the segment inside its transcript file.
	// It is not part of the CSV output; archive sinks use (Audio, Segment) as the key.
	Segment int `bson:"segment" json:"segment"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CSVRecord returns the flashcard's CSV fields in column order.
func (f Flashcard) CSVRecord() []string {
	return []string{f.Sentence, f.Translation, f.Notes, f.Audio}
}

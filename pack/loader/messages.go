package loader

import (
	"io"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
)

// LoadMessages reads the fixed-length message table used by PRINT.
func LoadMessages(r io.ReadSeeker, release config.Release) ([]string, error) {
	if release.MessageCount == 0 || release.MessageLength == 0 {
		return nil, nil
	}
	if _, err := r.Seek(release.MessagesOffset, io.SeekStart); err != nil {
		return nil, stream.NewDecodeError(stream.ErrTruncated, release.MessagesOffset, "seek failed: %v", err)
	}

	cm := config.GetEncoding(release.Platform)
	buf := make([]byte, release.MessageLength)
	messages := make([]string, 0, release.MessageCount)
	for i := 0; i < release.MessageCount; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, stream.NewDecodeError(stream.ErrTruncated,
				release.MessagesOffset+int64(i*release.MessageLength), "message %d: %v", i, err)
		}
		messages = append(messages, utils.DecodeString(cm, buf))
	}
	return messages, nil
}

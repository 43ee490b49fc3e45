package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// ArchiveFormat tags exported save archives.
const (
	ArchiveFormat  = "block-buddy-archive"
	ArchiveVersion = 1
)

// ArchiveHeader is the first line of an archive. It can be read without
// decoding the snapshot body.
type ArchiveHeader struct {
	Format           string `json:"format"`
	Version          int    `json:"version"`
	ID               string `json:"id"`
	Profile          string `json:"profile"`
	CreatedAtEpochMs int64  `json:"createdAtEpochMs"`
}

// Archive is a portable, compressed copy of one profile's save.
type Archive struct {
	Header   ArchiveHeader
	Snapshot WorldSnapshot
}

// NewArchive wraps a snapshot for export.
func NewArchive(profile string, s WorldSnapshot, now time.Time) Archive {
	return Archive{
		Header: ArchiveHeader{
			Format:           ArchiveFormat,
			Version:          ArchiveVersion,
			ID:               uuid.NewString(),
			Profile:          profile,
			CreatedAtEpochMs: now.UnixMilli(),
		},
		Snapshot: s,
	}
}

// WriteArchive writes a zstd stream holding a header line and the snapshot JSON.
func WriteArchive(w io.Writer, a Archive) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("snapshot: archive encoder: %w", err)
	}

	bw := bufio.NewWriter(enc)
	hb, err := json.Marshal(a.Header)
	if err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: archive header: %w", err)
	}
	body, err := Encode(a.Snapshot)
	if err != nil {
		enc.Close()
		return err
	}
	bw.Write(hb)
	bw.WriteByte('\n')
	bw.Write(body)
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: write archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: close archive: %w", err)
	}
	return nil
}

// ReadArchive reads an archive written by WriteArchive. The body goes through
// the same validation as a save file.
func ReadArchive(r io.Reader) (Archive, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Archive{}, fmt.Errorf("snapshot: archive decoder: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return Archive{}, fmt.Errorf("%w: archive header: %v", ErrInvalidSnapshot, err)
	}

	var a Archive
	if err := json.Unmarshal(line, &a.Header); err != nil {
		return Archive{}, fmt.Errorf("%w: archive header: %v", ErrInvalidSnapshot, err)
	}
	if a.Header.Format != ArchiveFormat {
		return Archive{}, fmt.Errorf("%w: not a save archive (format %q)", ErrInvalidSnapshot, a.Header.Format)
	}
	if a.Header.Version > ArchiveVersion {
		return Archive{}, fmt.Errorf("%w: archive version %d is newer than %d", ErrInvalidSnapshot, a.Header.Version, ArchiveVersion)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return Archive{}, fmt.Errorf("snapshot: read archive: %w", err)
	}
	a.Snapshot, err = Decode(body)
	if err != nil {
		return Archive{}, err
	}
	return a, nil
}

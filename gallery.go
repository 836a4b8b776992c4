package pixoo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ─── Gallery Upload ─────────────────────────────────────────────────────────────
//
// A gallery upload replaces the content of one of the three gallery slots.
// The device only understands one big transfer:
//
//  1. Prepare:  CmdSetUserGIF [0x00, 0x00, slot]
//  2. Chunks:   CmdSetUserGIF [3B chunk header][up to 200B payload] ...
//  3. Finalize: CmdSetUserGIF [0x02]
//
// The payload is the sub-frame stream of every image, back to back. Still
// pictures are sent as one-frame animations; mixing the still and animated
// encodings in one gallery breaks their display durations.

// UploadState is the phase of a GalleryUpload.
type UploadState int

const (
	UploadIdle      UploadState = iota // Nothing sent yet
	UploadPrepared                     // Slot prepared, no image added
	UploadStreaming                    // At least one image added
	UploadFinalized                    // Chunks and end marker sent
)

// String returns the name of the state.
func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadPrepared:
		return "prepared"
	case UploadStreaming:
		return "streaming"
	case UploadFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("UploadState(%d)", int(s))
	}
}

// GalleryUpload drives one upload to one slot.
//
//	up := dev.NewGalleryUpload(0)
//	if err := up.Prepare(); err != nil {
//	    return err
//	}
//	for _, p := range paths {
//	    if err := up.AddFile(p); err != nil {
//	        log.Println(err)
//	    }
//	}
//	err := up.Finalize()
type GalleryUpload struct {
	dev     *Device
	id      string
	slot    int
	state   UploadState
	asm     *Assembler
	payload []byte
	images  []string
	log     zerolog.Logger
}

// NewGalleryUpload starts an upload to slot. The slot is taken modulo 3.
func (d *Device) NewGalleryUpload(slot int) *GalleryUpload {
	slot = normalizeSlot(slot)
	id := uuid.New().String()
	return &GalleryUpload{
		dev:  d,
		id:   id,
		slot: slot,
		asm:  NewAssembler(d.encoder),
		log: d.opts.logger.With().
			Str("upload", id).
			Int("gallery", slot+1).
			Logger(),
	}
}

// ID returns the correlation id of the upload.
func (u *GalleryUpload) ID() string { return u.id }

// Slot returns the target slot (0-2).
func (u *GalleryUpload) Slot() int { return u.slot }

// State returns the current phase.
func (u *GalleryUpload) State() UploadState { return u.state }

// Images returns the names of the images added so far.
func (u *GalleryUpload) Images() []string {
	return append([]string(nil), u.images...)
}

// Bytes returns the size of the accumulated payload.
func (u *GalleryUpload) Bytes() int { return len(u.payload) }

// Prepare tells the device which slot the next transfer goes to.
func (u *GalleryUpload) Prepare() error {
	if u.state != UploadIdle {
		return fmt.Errorf("prepare in state %s: %w", u.state, ErrUploadState)
	}

	u.log.Info().Msg("preparing gallery upload")
	if err := u.dev.Send(CmdSetUserGIF, []byte{uploadPhasePrepare, 0x00, byte(u.slot)}); err != nil {
		return err
	}

	u.state = UploadPrepared
	return nil
}

// AddFrames encodes one image (or animation) and appends it to the upload.
// The image gets duration tag 100 + its position; declared durations are
// shifted by the position too, so equal animations keep distinct digits.
// An image that fails to encode is not counted.
func (u *GalleryUpload) AddFrames(name string, frames []RawFrame) error {
	if u.state != UploadPrepared && u.state != UploadStreaming {
		return fmt.Errorf("add %s in state %s: %w", name, u.state, ErrUploadState)
	}
	if len(u.images) >= MaxGalleryImages {
		return fmt.Errorf("%s: %w", name, ErrGalleryFull)
	}

	index := len(u.images)
	tagged := make([]RawFrame, len(frames))
	for i, f := range frames {
		if f.HasDuration {
			f.DurationMs += index
		}
		tagged[i] = f
	}

	data, err := u.asm.Assemble(tagged, DurationTag(index))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	u.payload = append(u.payload, data...)
	u.images = append(u.images, name)
	u.state = UploadStreaming

	u.log.Info().
		Int("index", index+1).
		Str("file", name).
		Int("frames", len(frames)).
		Int("bytes", len(data)).
		Msg("image encoded")
	u.dev.progress(UploadProgress{
		UploadID: u.id,
		Slot:     u.slot,
		FileName: name,
		Index:    index,
		Total:    len(u.images),
		Bytes:    len(u.payload),
	})
	return nil
}

// AddFile decodes a picture file and adds it.
func (u *GalleryUpload) AddFile(path string) error {
	if _, ok := SupportedFormat(path); !ok {
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	frames, err := DecodeFile(path)
	if err != nil {
		return err
	}
	return u.AddFrames(path, frames)
}

// Finalize sends the accumulated payload in chunks followed by the end
// marker.
func (u *GalleryUpload) Finalize() error {
	if u.state != UploadPrepared && u.state != UploadStreaming {
		return fmt.Errorf("finalize in state %s: %w", u.state, ErrUploadState)
	}

	if len(u.payload) > MaxGalleryPayload {
		u.log.Warn().
			Int("bytes", len(u.payload)).
			Int("limit", MaxGalleryPayload).
			Msg("gallery payload is larger than the device is known to accept")
	}

	n, err := u.dev.sendChunks(CmdSetUserGIF, u.payload, u.dev.opts.galleryHead)
	if err != nil {
		return err
	}
	if err := u.dev.Send(CmdSetUserGIF, []byte{uploadPhaseFinalize}); err != nil {
		return err
	}

	u.state = UploadFinalized
	u.log.Info().
		Int("images", len(u.images)).
		Int("chunks", n).
		Int("bytes", len(u.payload)).
		Msg("finished uploading to gallery")
	u.dev.progress(UploadProgress{
		UploadID:  u.id,
		Slot:      u.slot,
		Index:     len(u.images),
		Total:     len(u.images),
		Bytes:     len(u.payload),
		Finalized: true,
	})
	return nil
}

// ─── Batch Upload ───────────────────────────────────────────────────────────────

// SkippedFile is an input left out of an upload.
type SkippedFile struct {
	Path string
	Err  error
}

// UploadReport summarises UploadGallery.
type UploadReport struct {
	ID       string        // Upload correlation id
	Slot     int           // Gallery slot (0-2)
	Uploaded []string      // Images sent, in gallery order
	Skipped  []SkippedFile // Inputs left out and why
	Bytes    int           // Payload size
}

// UploadGallery uploads up to 16 picture files to slot.
//
// Files with unsupported extensions are skipped with a warning. Files past
// the 16th are reported and not uploaded. Files that fail to decode or are
// not square are reported and the rest go on. A transport error stops the
// upload immediately; the device is then left mid-transfer.
//
//	report, err := dev.UploadGallery(0, []string{"a.gif", "b.png"})
//	for _, s := range report.Skipped {
//	    fmt.Println("skipped", s.Path, s.Err)
//	}
func (d *Device) UploadGallery(slot int, paths []string) (*UploadReport, error) {
	report := &UploadReport{Slot: normalizeSlot(slot)}
	log := d.log()

	var accepted []string
	for _, p := range paths {
		if _, ok := SupportedFormat(p); !ok {
			log.Warn().Str("file", p).Msg("unsupported file extension, skipping")
			report.Skipped = append(report.Skipped, SkippedFile{Path: p, Err: ErrUnsupportedFormat})
			continue
		}
		accepted = append(accepted, p)
	}

	if len(accepted) > MaxGalleryImages {
		for _, p := range accepted[MaxGalleryImages:] {
			log.Warn().Str("file", p).Msg("the Pixoo only supports up to 16 images per gallery, not uploading")
			report.Skipped = append(report.Skipped, SkippedFile{Path: p, Err: ErrGalleryFull})
		}
		accepted = accepted[:MaxGalleryImages]
	}

	if len(accepted) == 0 {
		return report, ErrNoImages
	}

	up := d.NewGalleryUpload(slot)
	report.ID = up.ID()

	if err := up.Prepare(); err != nil {
		return report, err
	}

	for _, p := range accepted {
		if err := up.AddFile(p); err != nil {
			if !isPerImageError(err) {
				return report, err
			}
			up.log.Warn().Err(err).Str("file", p).Msg("skipping image")
			report.Skipped = append(report.Skipped, SkippedFile{Path: p, Err: err})
			d.progress(UploadProgress{
				UploadID: up.ID(),
				Slot:     up.Slot(),
				FileName: p,
				Index:    len(up.images),
				Total:    len(up.images),
				Bytes:    up.Bytes(),
				Err:      err,
			})
			continue
		}
		report.Uploaded = append(report.Uploaded, p)
	}

	if err := up.Finalize(); err != nil {
		return report, err
	}

	report.Bytes = up.Bytes()
	return report, nil
}

// progress calls the progress callback, if any.
func (d *Device) progress(p UploadProgress) {
	if d.opts.onProgress != nil {
		d.opts.onProgress(p)
	}
}

// normalizeSlot maps any integer onto 0..GalleryCount-1.
func normalizeSlot(slot int) int {
	slot %= GalleryCount
	if slot < 0 {
		slot += GalleryCount
	}
	return slot
}

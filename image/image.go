// Package image holds the output of the bytecode generator: the static
// section, the code section and the metadata a loader needs to run them.
package image

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// FormatVersion is bumped whenever the container layout changes.
const FormatVersion = 1

// Symbol names a region of the image.
type Symbol struct {
	Name   string `cbor:"1,keyasint"`
	Type   string `cbor:"2,keyasint"`
	Offset uint64 `cbor:"3,keyasint"`
	Size   uint64 `cbor:"4,keyasint"`
}

// TypeInfo maps every function to its signature.
type TypeInfo struct {
	Functions map[string]string `cbor:"1,keyasint" json:"functions"`
}

// Image is a flat program: Bytes is the static section followed by the code
// section, and is loaded at address zero. Entry is where execution starts, a
// stub that calls the function at EntryFunction and exits with its result.
type Image struct {
	Format     int       `cbor:"1,keyasint"`
	BuildID    uuid.UUID `cbor:"2,keyasint"`
	Entry      uint64    `cbor:"3,keyasint"`
	StaticSize uint64    `cbor:"4,keyasint"`
	Bytes      []byte    `cbor:"5,keyasint"`
	Statics    []Symbol  `cbor:"6,keyasint,omitempty"`
	Functions  []Symbol  `cbor:"7,keyasint,omitempty"`
	TypeInfo   TypeInfo  `cbor:"8,keyasint"`

	EntryFunction uint64 `cbor:"9,keyasint"`
}

// New returns an empty image with a fresh build id.
func New() *Image {
	return &Image{
		Format:   FormatVersion,
		BuildID:  uuid.New(),
		TypeInfo: TypeInfo{Functions: map[string]string{}},
	}
}

// Code returns the code section.
func (img *Image) Code() []byte {
	return img.Bytes[img.StaticSize:]
}

// Function looks up a function symbol by name.
func (img *Image) Function(name string) (Symbol, bool) {
	for _, f := range img.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Symbol{}, false
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Marshal serializes an image to its CBOR container form.
func Marshal(img *Image) ([]byte, error) {
	return encMode.Marshal(img)
}

// Unmarshal reads an image written by Marshal.
func Unmarshal(data []byte) (*Image, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("image: unmarshal: %w", err)
	}
	if img.Format != FormatVersion {
		return nil, fmt.Errorf("image: unsupported format version %d", img.Format)
	}
	if img.StaticSize > uint64(len(img.Bytes)) || img.Entry >= uint64(len(img.Bytes)) || img.EntryFunction >= uint64(len(img.Bytes)) {
		return nil, fmt.Errorf("image: corrupt layout (static size %d, entry %d, %d bytes)", img.StaticSize, img.Entry, len(img.Bytes))
	}
	return &img, nil
}

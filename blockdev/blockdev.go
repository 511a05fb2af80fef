// Package blockdev implements component A: a thin, block-granular wrapper
// around a host byte stream. It never interprets the bytes it moves; every
// other package in this module reads and writes through it.
package blockdev

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Device is a random-access byte stream, addressable either by arbitrary
// byte range or by block index. Every operation fails fatally (returns a
// *vfserr.Error wrapping ErrIOFailed) if the seek or the underlying
// read/write reports a short transfer, per spec §4.A.
type Device struct {
	stream io.ReadWriteSeeker
}

// New wraps an already-open stream. The stream must support seeking to
// arbitrary byte offsets; callers are responsible for opening it in
// read/write mode.
func New(stream io.ReadWriteSeeker) *Device {
	return &Device{stream: stream}
}

// ReadAt reads exactly len(buf) bytes starting at the given byte offset.
func (d *Device) ReadAt(offset int64, buf []byte) error {
	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	n, err := io.ReadFull(d.stream, buf)
	if err != nil {
		return vfserr.ErrIOFailed.WithMessage("short read").Wrap(err)
	}
	if n != len(buf) {
		return vfserr.ErrIOFailed.WithMessage("short read")
	}
	return nil
}

// WriteAt writes all of buf starting at the given byte offset.
func (d *Device) WriteAt(offset int64, buf []byte) error {
	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	n, err := d.stream.Write(buf)
	if err != nil {
		return vfserr.ErrIOFailed.WithMessage("short write").Wrap(err)
	}
	if n != len(buf) {
		return vfserr.ErrIOFailed.WithMessage("short write")
	}
	return nil
}

// ReadBlock reads one full block at the given logical block index.
func (d *Device) ReadBlock(index uint32) ([]byte, error) {
	buf := make([]byte, layout.BlockSize)
	if err := d.ReadAt(int64(index)*layout.BlockSize, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteBlock writes one full block at the given logical block index. data
// must be exactly layout.BlockSize bytes.
func (d *Device) WriteBlock(index uint32, data []byte) error {
	if len(data) != layout.BlockSize {
		return vfserr.ErrInvalidArgument.WithMessage("block write must be exactly one block")
	}
	return d.WriteAt(int64(index)*layout.BlockSize, data)
}

// ReadByte reads a single byte at the given absolute offset.
func (d *Device) ReadByte(offset int64) (byte, error) {
	var buf [1]byte
	if err := d.ReadAt(offset, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteByte writes a single byte at the given absolute offset.
func (d *Device) WriteByte(offset int64, value byte) error {
	return d.WriteAt(offset, []byte{value})
}

// Close flushes any buffered writes (if the stream supports it) and closes
// the underlying stream (if it supports it), combining both failures into a
// single reported error rather than silently dropping one.
func (d *Device) Close() error {
	var result *multierror.Error

	if flusher, ok := d.stream.(interface{ Sync() error }); ok {
		if err := flusher.Sync(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if closer, ok := d.stream.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

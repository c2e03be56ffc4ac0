package drivers

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"livechart/models"
)

var magicBytes = []byte{0xAA, 0x55}

const (
	maxDIDDataLength = 64
	maxPayloadLength = 4096
)

var (
	ErrBadLength  = errors.New("error data length outside range")
	ErrBadCRC     = errors.New("error frame checksum does not match")
	ErrBadPayload = errors.New("error frame payload is not a values object")
)

// DIDFrame is one reading sent by a data logger over serial.
type DIDFrame struct {
	Millis uint32
	DID    uint16
	Data   []byte
}

// ReadDIDFrame reads a single data logger frame with layout:
// [AA 55][millis:u32 LE][DID:u16 BE][len:u8][data:len][crc8]
func ReadDIDFrame(reader *bufio.Reader) (DIDFrame, error) {
	if err := resync(reader); err != nil {
		return DIDFrame{}, err
	}

	header := make([]byte, 7)
	if _, err := io.ReadFull(reader, header); err != nil {
		return DIDFrame{}, err
	}
	dataLength := int(header[6])
	if dataLength > maxDIDDataLength {
		return DIDFrame{}, fmt.Errorf("error data length %d: %w", dataLength, ErrBadLength)
	}

	tail := make([]byte, dataLength+1)
	if _, err := io.ReadFull(reader, tail); err != nil {
		return DIDFrame{}, err
	}
	data := tail[:dataLength]

	crc := crc8UpdateBuf(0x00, header)
	crc = crc8UpdateBuf(crc, data)
	if crc != tail[dataLength] {
		return DIDFrame{}, ErrBadCRC
	}

	return DIDFrame{
		Millis: binary.LittleEndian.Uint32(header[:4]),
		DID:    binary.BigEndian.Uint16(header[4:6]),
		Data:   append([]byte(nil), data...),
	}, nil
}

// AppendDIDFrame appends the encoded frame to buf.
func AppendDIDFrame(buf []byte, frame DIDFrame) []byte {
	start := len(buf)
	buf = append(buf, magicBytes...)
	buf = binary.LittleEndian.AppendUint32(buf, frame.Millis)
	buf = binary.BigEndian.AppendUint16(buf, frame.DID)
	buf = append(buf, byte(len(frame.Data)))
	buf = append(buf, frame.Data...)
	return append(buf, crc8UpdateBuf(0x00, buf[start+2:]))
}

// WriteFrame writes sample as a recording frame with layout:
// [AA 55][timestamp:i64 LE][len:u16 BE][values json:len][crc8]
func WriteFrame(writer io.Writer, sample models.Sample) error {
	payload, err := sample.MarshalValues()
	if err != nil {
		return fmt.Errorf("encode sample values: %w", err)
	}
	if len(payload) > maxPayloadLength {
		return fmt.Errorf("error data length %d: %w", len(payload), ErrBadLength)
	}

	record := make([]byte, 0, 2+8+2+len(payload)+1)
	record = append(record, magicBytes...)
	record = binary.LittleEndian.AppendUint64(record, uint64(sample.Timestamp))
	record = binary.BigEndian.AppendUint16(record, uint16(len(payload)))
	record = append(record, payload...)
	record = append(record, crc8UpdateBuf(0x00, record[2:]))

	_, err = writer.Write(record)
	return err
}

// ReadFrame reads the next recording frame, skipping any bytes before the magic.
func ReadFrame(reader *bufio.Reader) (models.Sample, error) {
	if err := resync(reader); err != nil {
		return models.Sample{}, err
	}

	header := make([]byte, 10)
	if _, err := io.ReadFull(reader, header); err != nil {
		return models.Sample{}, err
	}
	payloadLength := int(binary.BigEndian.Uint16(header[8:]))
	if payloadLength > maxPayloadLength {
		return models.Sample{}, fmt.Errorf("error data length %d: %w", payloadLength, ErrBadLength)
	}

	tail := make([]byte, payloadLength+1)
	if _, err := io.ReadFull(reader, tail); err != nil {
		return models.Sample{}, err
	}
	payload := tail[:payloadLength]

	crc := crc8UpdateBuf(0x00, header)
	crc = crc8UpdateBuf(crc, payload)
	if crc != tail[payloadLength] {
		return models.Sample{}, ErrBadCRC
	}

	values, err := models.UnmarshalValues(payload)
	if err != nil {
		return models.Sample{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return models.Sample{
		Timestamp: int64(binary.LittleEndian.Uint64(header[:8])),
		Values:    values,
	}, nil
}

// IsCorrupt reports whether err came from a damaged frame the reader can skip past.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrBadCRC) || errors.Is(err, ErrBadLength) || errors.Is(err, ErrBadPayload)
}

func resync(reader *bufio.Reader) error {
	for {
		firstByte, err := reader.ReadByte()
		if err != nil {
			return err
		}
		if firstByte != magicBytes[0] {
			continue
		}
		secondByte, err := reader.ReadByte()
		if err != nil {
			return err
		}
		if secondByte == magicBytes[1] {
			return nil
		}
		if secondByte == magicBytes[0] {
			_ = reader.UnreadByte()
		}
	}
}

// CRC-8-CCITT helpers (poly 0x07, init 0x00)
func crc8Update(crc, b byte) byte {
	crc ^= b
	for i := 0; i < 8; i++ {
		if crc&0x80 != 0 {
			crc = (crc << 1) ^ 0x07
		} else {
			crc <<= 1
		}
	}
	return crc
}

func crc8UpdateBuf(crc byte, buffer []byte) byte {
	for _, b := range buffer {
		crc = crc8Update(crc, b)
	}
	return crc
}

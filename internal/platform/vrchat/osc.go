// Package vrchat implements the VRChat OSC runtime (spec.md §4.2). No OSC
// library appears anywhere in the retrieved corpus, so this is the
// documented stdlib-justified exception: OSC 1.0 packets are encoded and
// decoded by hand over a UDP net.PacketConn using only encoding/binary and
// net, the same low-level layering the teacher applies to its raw Twitch
// IRC connection.
package vrchat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
)

// encodeString pads s with NUL bytes to a 4-byte boundary, per the OSC 1.0
// string argument encoding.
func encodeString(s string) []byte {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// encodeMessage builds one OSC message: address pattern, a type-tag string
// prefixed with ',', then the typed arguments in order. Supported argument
// types: float32, int32, bool, string.
func encodeMessage(address string, args ...interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeString(address))

	tags := []byte{','}
	var argBytes bytes.Buffer
	for _, arg := range args {
		switch v := arg.(type) {
		case float32:
			tags = append(tags, 'f')
			if err := binary.Write(&argBytes, binary.BigEndian, v); err != nil {
				return nil, err
			}
		case int32:
			tags = append(tags, 'i')
			if err := binary.Write(&argBytes, binary.BigEndian, v); err != nil {
				return nil, err
			}
		case bool:
			if v {
				tags = append(tags, 'T')
			} else {
				tags = append(tags, 'F')
			}
		case string:
			tags = append(tags, 's')
			argBytes.Write(encodeString(v))
		default:
			return nil, fmt.Errorf("unsupported OSC argument type %T", arg)
		}
	}

	buf.Write(encodeString(string(tags)))
	buf.Write(argBytes.Bytes())
	return buf.Bytes(), nil
}

// decodeMessage parses one OSC message into its address and typed
// arguments. It accepts the same argument types encodeMessage writes
// (float32, int32, bool, string) and rejects any other type tag.
func decodeMessage(packet []byte) (address string, args []interface{}, err error) {
	r := bytes.NewReader(packet)
	address, err = readOSCString(r)
	if err != nil {
		return "", nil, fmt.Errorf("read address: %w", err)
	}
	tagString, err := readOSCString(r)
	if err != nil {
		return "", nil, fmt.Errorf("read type tags: %w", err)
	}
	if len(tagString) == 0 || tagString[0] != ',' {
		return "", nil, fmt.Errorf("malformed type tag string %q", tagString)
	}

	for _, tag := range tagString[1:] {
		switch tag {
		case 'f':
			var v float32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return "", nil, err
			}
			args = append(args, v)
		case 'i':
			var v int32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return "", nil, err
			}
			args = append(args, v)
		case 'T':
			args = append(args, true)
		case 'F':
			args = append(args, false)
		case 's':
			s, err := readOSCString(r)
			if err != nil {
				return "", nil, err
			}
			args = append(args, s)
		default:
			return "", nil, fmt.Errorf("unsupported OSC type tag %q", tag)
		}
	}
	return address, args, nil
}

func readOSCString(r *bytes.Reader) (string, error) {
	var raw []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		raw = append(raw, b)
	}
	// consume remaining padding to the next 4-byte boundary
	for n := len(raw) + 1; n%4 != 0; n++ {
		if _, err := r.ReadByte(); err != nil {
			break
		}
	}
	return string(raw), nil
}

// conn wraps a UDP socket for sending parameter updates to VRChat and
// optionally listening for avatar parameter change notifications.
type conn struct {
	sendAddr *net.UDPAddr
	sendConn net.PacketConn
	listener net.PacketConn
}

func dial(sendHost string, sendPort int) (*conn, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", sendHost, sendPort))
	if err != nil {
		return nil, fmt.Errorf("resolve vrchat osc address: %w", err)
	}
	pc, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("open osc send socket: %w", err)
	}
	return &conn{sendAddr: addr, sendConn: pc}, nil
}

func (c *conn) send(address string, args ...interface{}) error {
	packet, err := encodeMessage(address, args...)
	if err != nil {
		return err
	}
	_, err = c.sendConn.WriteTo(packet, c.sendAddr)
	return err
}

func (c *conn) listen(listenPort int, handler func(address string, args []interface{})) error {
	pc, err := net.ListenPacket("udp", fmt.Sprintf(":%d", listenPort))
	if err != nil {
		return fmt.Errorf("listen vrchat osc: %w", err)
	}
	c.listener = pc
	go func() {
		buf := make([]byte, 65507)
		for {
			n, _, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			address, args, err := decodeMessage(buf[:n])
			if err != nil {
				continue
			}
			handler(address, args)
		}
	}()
	return nil
}

func (c *conn) close() error {
	var err error
	if c.listener != nil {
		err = c.listener.Close()
	}
	if c.sendConn != nil {
		if e := c.sendConn.Close(); e != nil {
			err = e
		}
	}
	return err
}

package distproc

import (
	"bufio"
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"io"
	"net"
	"time"

	"github.com/masterkusok/descrack/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// maxFrameSize bounds a single message; anything larger is a corrupt
	// or hostile stream.
	maxFrameSize = 1 << 20

	handshakeTimeout = 5 * time.Second
	dialTimeout      = 10 * time.Second

	// sendTimeout bounds Send; a peer that stalls the write this long is
	// treated as disconnected.
	sendTimeout = 10 * time.Second

	challengeSize = 32
	welcomeReply  = "#WELCOME#"
	failureReply  = "#FAILURE#"
)

// macKey derives the handshake MAC key from the preshared secret.
func macKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), []byte("descrack.distproc.v1"),
		4096, sha256.Size, sha256.New)
}

// Channel is a reliable, ordered, message-boundary-preserving stream of
// envelopes over one TCP connection.
type Channel struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newChannel(conn net.Conn) *Channel {
	return &Channel{conn: conn, reader: bufio.NewReader(conn)}
}

// Send writes one envelope as a length-framed gob message.
func (c *Channel) Send(env Envelope) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(env); err != nil {
		return errors.Annotate(err, "encoding envelope: %w")
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return errors.Annotate(errors.ErrChannelClosed, "%v: %w", err)
	}

	if err := writeFrame(c.conn, payload.Bytes()); err != nil {
		return err
	}

	return nil
}

// Recv blocks until one whole envelope arrives.  EOF and truncated frames
// surface as ErrChannelClosed.
func (c *Channel) Recv() (Envelope, error) {
	payload, err := readFrame(c.reader)
	if err != nil {
		return Envelope{}, err
	}

	var env Envelope
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&env); err != nil {
		return Envelope{}, errors.Annotate(errors.ErrChannelClosed,
			"decoding envelope: %v: %w", err)
	}

	return env, nil
}

// Readable reports whether a Recv would find buffered or pending data
// within timeout.  It consumes nothing.  A closed peer also reads as
// readable so the caller's Recv observes the error.
func (c *Channel) Readable(timeout time.Duration) bool {
	if c.reader.Buffered() > 0 {
		return true
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return true
	}
	_, err := c.reader.Peek(1)
	c.conn.SetReadDeadline(time.Time{})

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return false
	}

	return true
}

// Close releases the connection.
func (c *Channel) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address.
func (c *Channel) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// writeFrame emits a uint32 big-endian length followed by the payload in a
// single write.
func writeFrame(w io.Writer, payload []byte) error {
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := w.Write(frame); err != nil {
		return errors.Annotate(errors.ErrChannelClosed, "send: %v: %w", err)
	}

	return nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Annotate(errors.ErrChannelClosed, "recv: %v: %w", err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameSize {
		return nil, errors.Annotate(errors.ErrChannelClosed,
			"frame of %d bytes exceeds limit: %w", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Annotate(errors.ErrChannelClosed, "recv: %v: %w", err)
	}

	return payload, nil
}

// deliverChallenge authenticates the remote side: send a random challenge,
// verify the HMAC digest that comes back.
func deliverChallenge(conn io.ReadWriter, key []byte) error {
	challenge := make([]byte, challengeSize)
	if _, err := rand.Read(challenge); err != nil {
		return errors.Annotate(err, "generating challenge: %w")
	}

	if err := writeFrame(conn, challenge); err != nil {
		return err
	}

	digest, err := readFrame(conn)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(challenge)
	if !hmac.Equal(digest, mac.Sum(nil)) {
		writeFrame(conn, []byte(failureReply))
		return errors.Annotate(errors.ErrAuthFailure, "digest mismatch: %w")
	}

	return writeFrame(conn, []byte(welcomeReply))
}

// answerChallenge authenticates us to the remote side.
func answerChallenge(conn io.ReadWriter, key []byte) error {
	challenge, err := readFrame(conn)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(challenge)
	if err := writeFrame(conn, mac.Sum(nil)); err != nil {
		return err
	}

	reply, err := readFrame(conn)
	if err != nil {
		return err
	}
	if string(reply) != welcomeReply {
		return errors.Annotate(errors.ErrAuthFailure, "rejected by peer: %w")
	}

	return nil
}

// handshake runs the mutual challenge/response.  An empty secret skips
// authentication entirely.
func handshake(conn net.Conn, secret string, serverSide bool) error {
	if secret == "" {
		return nil
	}

	if err := conn.SetDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return errors.Annotate(errors.ErrChannelClosed, "%v: %w", err)
	}
	defer conn.SetDeadline(time.Time{})

	key := macKey(secret)
	if serverSide {
		if err := deliverChallenge(conn, key); err != nil {
			return err
		}
		return answerChallenge(conn, key)
	}

	if err := answerChallenge(conn, key); err != nil {
		return err
	}
	return deliverChallenge(conn, key)
}

// Listener accepts authenticated channels.
type Listener struct {
	tcp    *net.TCPListener
	secret string
}

// Listen binds addr and returns a pollable listener.
func Listen(addr, secret string) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Annotate(err, "binding %s: %w", addr)
	}

	return &Listener{tcp: l.(*net.TCPListener), secret: secret}, nil
}

// Accept waits up to timeout for an incoming connection, authenticates it
// and returns the channel.  ErrTimeout when nothing arrived; ErrAuthFailure
// when the peer failed the handshake.
func (l *Listener) Accept(timeout time.Duration) (*Channel, error) {
	if err := l.tcp.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, errors.Annotate(errors.ErrChannelClosed, "%v: %w", err)
	}

	conn, err := l.tcp.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, errors.ErrTimeout
		}
		return nil, errors.Annotate(err, "accept: %w")
	}

	if err := handshake(conn, l.secret, true); err != nil {
		conn.Close()
		return nil, err
	}

	return newChannel(conn), nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.tcp.Addr()
}

// Close releases the listening socket.
func (l *Listener) Close() error {
	return l.tcp.Close()
}

// Dial connects to a manager and authenticates.
func Dial(addr, secret string) (*Channel, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, errors.Annotate(err, "dialing %s: %w", addr)
	}

	if err := handshake(conn, secret, false); err != nil {
		conn.Close()
		return nil, err
	}

	return newChannel(conn), nil
}

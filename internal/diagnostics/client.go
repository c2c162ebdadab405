package diagnostics

import (
	"context"
	"fmt"
	"io"

	"github.com/danielpaulus/go-ios/ios"
	"howett.net/plist"
)

// ServiceName is the lockdown service name of the diagnostics relay
const ServiceName = "com.apple.mobile.diagnostics_relay"

const statusSuccess = "Success"

// Error is a non-success status from the relay.
type Error struct {
	Request string
	Status  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("diagnostics %s: %s", e.Request, e.Status)
}

type request struct {
	Request      string `plist:"Request"`
	CurrentPlane string `plist:"CurrentPlane,omitempty"`
	EntryName    string `plist:"EntryName,omitempty"`
	EntryClass   string `plist:"EntryClass,omitempty"`
}

type response struct {
	Status      string                 `plist:"Status"`
	Diagnostics map[string]interface{} `plist:"Diagnostics"`
}

// Conn is the part of ios.DeviceConnectionInterface the relay needs.
type Conn interface {
	Send(message []byte) error
	Reader() io.Reader
	Close() error
}

// Client is a diagnostics relay connection.
type Client struct {
	conn  Conn
	codec ios.PlistCodec
}

// Connect starts the relay on device through lockdown. The lockdown session,
// pairing record and TLS upgrade are handled by go-ios.
func Connect(device ios.DeviceEntry) (*Client, error) {
	conn, err := ios.ConnectToService(device, ServiceName)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", ServiceName, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established relay connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn, codec: ios.NewPlistCodec()}
}

// IORegistry queries the registry. Nil filters are omitted from the request.
// It returns nil without error when the reply carries no registry.
func (c *Client) IORegistry(ctx context.Context, plane, name, class *string) (map[string]interface{}, error) {
	req := request{Request: "IORegistry"}
	if plane != nil {
		req.CurrentPlane = *plane
	}
	if name != nil {
		req.EntryName = *name
	}
	if class != nil {
		req.EntryClass = *class
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}

	tree, _ := resp.Diagnostics["IORegistry"].(map[string]interface{})
	return tree, nil
}

// Goodbye ends the relay session politely.
func (c *Client) Goodbye(ctx context.Context) error {
	_, err := c.call(ctx, request{Request: "Goodbye"})
	return err
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, req request) (*response, error) {
	// go-ios connections take no context; closing unblocks a pending read.
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	encoded, err := c.codec.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Request, err)
	}
	if err := c.conn.Send(encoded); err != nil {
		return nil, c.failure(ctx, req, err)
	}

	payload, err := c.codec.Decode(c.conn.Reader())
	if err != nil {
		return nil, c.failure(ctx, req, err)
	}

	var resp response
	if _, err := plist.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("diagnostics %s: decode reply: %w", req.Request, err)
	}
	if resp.Status != statusSuccess {
		return nil, &Error{Request: req.Request, Status: resp.Status}
	}
	return &resp, nil
}

func (c *Client) failure(ctx context.Context, req request, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("diagnostics %s: %w", req.Request, err)
}

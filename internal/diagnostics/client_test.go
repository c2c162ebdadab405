package diagnostics

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/danielpaulus/go-ios/ios"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

// pipeConn adapts one end of a net.Pipe to Conn.
type pipeConn struct {
	net.Conn
}

func (p pipeConn) Send(message []byte) error {
	_, err := p.Write(message)
	return err
}

func (p pipeConn) Reader() io.Reader {
	return p.Conn
}

func serve(t *testing.T, handle func(req map[string]interface{}) interface{}) *Client {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })

	codec := ios.NewPlistCodec()
	go func() {
		defer server.Close()
		for {
			payload, err := codec.Decode(server)
			if err != nil {
				return
			}
			var req map[string]interface{}
			if _, err := plist.Unmarshal(payload, &req); err != nil {
				return
			}
			reply := handle(req)
			if reply == nil {
				continue
			}
			encoded, err := codec.Encode(reply)
			if err != nil {
				return
			}
			if _, err := server.Write(encoded); err != nil {
				return
			}
		}
	}()
	return NewClient(pipeConn{client})
}

func TestIORegistry_SendsOnlyPresentFilters(t *testing.T) {
	requests := make(chan map[string]interface{}, 1)
	c := serve(t, func(req map[string]interface{}) interface{} {
		requests <- req
		return map[string]interface{}{
			"Status": "Success",
			"Diagnostics": map[string]interface{}{
				"IORegistry": map[string]interface{}{"name": "Root", "IOObjectClass": "IORegistryEntry"},
			},
		}
	})

	plane := "IOPower"
	tree, err := c.IORegistry(context.Background(), &plane, nil, nil)
	require.NoError(t, err)

	req := <-requests
	assert.Equal(t, "IORegistry", req["Request"])
	assert.Equal(t, "IOPower", req["CurrentPlane"])
	assert.NotContains(t, req, "EntryName")
	assert.NotContains(t, req, "EntryClass")
	assert.Equal(t, "Root", tree["name"])
}

func TestIORegistry_NoRegistryInReply(t *testing.T) {
	c := serve(t, func(req map[string]interface{}) interface{} {
		return map[string]interface{}{"Status": "Success", "Diagnostics": map[string]interface{}{}}
	})

	tree, err := c.IORegistry(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestIORegistry_Failure(t *testing.T) {
	c := serve(t, func(req map[string]interface{}) interface{} {
		return map[string]interface{}{"Status": "UnknownRequest"}
	})

	_, err := c.IORegistry(context.Background(), nil, nil, nil)
	var diagErr *Error
	require.True(t, errors.As(err, &diagErr))
	assert.Equal(t, "diagnostics IORegistry: UnknownRequest", diagErr.Error())
}

func TestGoodbye(t *testing.T) {
	requests := make(chan map[string]interface{}, 1)
	c := serve(t, func(req map[string]interface{}) interface{} {
		requests <- req
		return map[string]interface{}{"Status": "Success"}
	})

	require.NoError(t, c.Goodbye(context.Background()))
	assert.Equal(t, "Goodbye", (<-requests)["Request"])
}

func TestIORegistry_ContextCancelled(t *testing.T) {
	// The device never answers.
	c := serve(t, func(req map[string]interface{}) interface{} { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.IORegistry(ctx, nil, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

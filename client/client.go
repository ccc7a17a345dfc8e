/*
Package client is a thin Go client for the engine in package server: Dial
a connection, then issue Get/Set/Push/Watch and read replies or pushed
watch events with Next (SPEC_FULL.md §1, "a matching client library").
*/
package client

import (
	"net"

	"github.com/kvlink/redkit/command"
	"github.com/kvlink/redkit/conn"
	"github.com/kvlink/redkit/resp"
)

// Client holds one connection's read and write halves. Not safe for
// concurrent use by more than one goroutine — Watch followed by Next from
// a second goroutine is the one exception the engine supports, since
// pushed watch events and request replies share the same read half.
type Client struct {
	rh *conn.ReadHalf
	wh *conn.WriteHalf
	c  *conn.Conn
}

// Dial connects to addr and returns a ready-to-use Client.
func Dial(addr string) (*Client, error) {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c := conn.New(raw)
	rh, wh := c.Split()
	return &Client{rh: rh, wh: wh, c: c}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.c.Close()
}

// Get retrieves the value stored at key, returning a Null Type if it is
// absent.
func (c *Client) Get(key string) (resp.Type, error) {
	return c.send(command.Get{Key: key})
}

// Set stores value at key, replacing any prior value.
func (c *Client) Set(key, value string) (resp.Type, error) {
	return c.send(command.Set{Key: key, Value: value})
}

// Push appends values to the list at listName, creating it if absent.
func (c *Client) Push(listName string, values []string) (resp.Type, error) {
	return c.send(command.Push{ListName: listName, Values: values})
}

// Watch registers interest in future mutations of key, filtered by op.
// The acknowledgement reply is returned immediately; subsequent pushed
// events arrive via Next on this same Client.
func (c *Client) Watch(key string, op command.Operation) (resp.Type, error) {
	return c.send(command.Watch{Key: key, Operation: op})
}

// Next reads the next frame off the wire — either the reply to a request
// just sent, or (after Watch) the next pushed change event.
func (c *Client) Next() (resp.Type, error) {
	return c.rh.Recv()
}

func (c *Client) send(cmd command.Command) (resp.Type, error) {
	if _, err := c.wh.Send(command.Encode(cmd)); err != nil {
		return resp.Type{}, err
	}
	return c.rh.Recv()
}

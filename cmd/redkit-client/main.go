/*
redkit-client issues a single command against a running server and prints
its reply. It is not a REPL — each invocation opens a connection, sends
exactly one command, and exits (CLI ergonomics are out of scope; see
SPEC_FULL.md's Non-goals).
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kvlink/redkit/client"
	"github.com/kvlink/redkit/command"
	"github.com/kvlink/redkit/resp"
)

func main() {
	address := flag.String("address", "127.0.0.1:6379", "server address")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: redkit-client [-address host:port] <get|set|push|watch> ...")
		os.Exit(2)
	}

	c, err := client.Dial(*address)
	if err != nil {
		log.Fatalf("dial %s: %v", *address, err)
	}
	defer c.Close()

	reply, err := run(c, args[0], args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(format(reply))

	if args[0] == "watch" || args[0] == "WATCH" {
		for {
			ev, err := c.Next()
			if err != nil {
				log.Fatalf("watch: %v", err)
			}
			fmt.Println(format(ev))
		}
	}
}

func run(c *client.Client, name string, args []string) (resp.Type, error) {
	switch name {
	case "get", "GET":
		if len(args) != 1 {
			return resp.Type{}, fmt.Errorf("get requires exactly one key")
		}
		return c.Get(args[0])

	case "set", "SET":
		if len(args) != 2 {
			return resp.Type{}, fmt.Errorf("set requires a key and a value")
		}
		return c.Set(args[0], args[1])

	case "push", "PUSH":
		if len(args) < 1 {
			return resp.Type{}, fmt.Errorf("push requires a list name")
		}
		return c.Push(args[0], args[1:])

	case "watch", "WATCH":
		if len(args) < 1 || len(args) > 2 {
			return resp.Type{}, fmt.Errorf("watch requires a key and an optional operation code")
		}
		op := command.All
		if len(args) == 2 {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return resp.Type{}, fmt.Errorf("operation must be an integer: %w", err)
			}
			op = command.ParseOperation(n)
		}
		return c.Watch(args[0], op)

	default:
		return resp.Type{}, fmt.Errorf("unsupported command %q", name)
	}
}

func format(t resp.Type) string {
	switch t.Kind {
	case resp.SimpleString:
		return t.Str
	case resp.Error:
		return "(error) " + t.Str
	case resp.Integer:
		return strconv.FormatInt(t.Int, 10)
	case resp.BulkString:
		return string(t.Bulk)
	case resp.Null:
		return "(nil)"
	case resp.Array:
		out := "["
		for i, elem := range t.Elems {
			if i > 0 {
				out += ", "
			}
			out += format(elem)
		}
		return out + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}

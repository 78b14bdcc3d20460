package sdk

import (
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// Handshake is the handshake both host and plugin process must agree on
// before a connection is accepted. The magic cookie guards against a
// plugin binary being launched directly by a shell instead of by the
// host.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STEGA_PLUGIN",
	MagicCookieValue: "stega",
}

// PluginMap names the single dispensed service every stega plugin
// exposes over net/rpc.
var PluginMap = map[string]goplugin.Plugin{
	"stega": &RPCPlugin{},
}

// CommandDef is the wire form of a command a plugin wants registered on
// the host's command registry. Plugins run out of process, so a
// command's Action cannot cross the boundary directly; Describe returns
// CommandDefs and the host builds real command.Command values whose
// Action forwards to Invoke.
type CommandDef struct {
	Name        string
	Description string
	Category    string
	Aliases     []string
	Permissions []string
	Options     []OptionDef
	Subcommands []CommandDef
}

// OptionDef is the wire form of a command.Option.
type OptionDef struct {
	Name        string
	Alias       string
	Type        string // "string", "number", "boolean", "array"
	Required    bool
	Default     any
	HasDefault  bool
	Description string
}

// InvokeRequest carries one resolved command invocation across the RPC
// boundary.
type InvokeRequest struct {
	Command     []string
	Flags       map[string]any
	Positionals []string
}

// InvokeResponse carries the result of a plugin-side command invocation
// back to the host. Error is a plain string (not an error value) since
// net/rpc must gob-encode it.
type InvokeResponse struct {
	Error string
}

// Service is the interface a plugin binary implements natively. The
// host only ever talks to the RPCClient stub generated from it.
type Service interface {
	Metadata() (PluginMetadata, error)
	Describe() ([]CommandDef, error)
	Init() error
	Invoke(req InvokeRequest) (InvokeResponse, error)
	Unload() error
}

// RPCPlugin adapts a Service to go-plugin's net/rpc Plugin interface.
type RPCPlugin struct {
	Impl Service
}

func (p *RPCPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

func (p *RPCPlugin) Client(_ *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// RPCServer runs inside the plugin process and dispatches incoming
// net/rpc calls to the plugin's Service implementation.
type RPCServer struct {
	Impl Service
}

func (s *RPCServer) Metadata(_ struct{}, reply *PluginMetadata) error {
	m, err := s.Impl.Metadata()
	if err != nil {
		return err
	}
	*reply = m
	return nil
}

func (s *RPCServer) Describe(_ struct{}, reply *[]CommandDef) error {
	defs, err := s.Impl.Describe()
	if err != nil {
		return err
	}
	*reply = defs
	return nil
}

func (s *RPCServer) Init(_ struct{}, _ *struct{}) error {
	return s.Impl.Init()
}

func (s *RPCServer) Invoke(req InvokeRequest, reply *InvokeResponse) error {
	resp, err := s.Impl.Invoke(req)
	*reply = resp
	return err
}

func (s *RPCServer) Unload(_ struct{}, _ *struct{}) error {
	return s.Impl.Unload()
}

// RPCClient runs in the host process and is the value Dispense returns;
// it satisfies Service by forwarding every call over net/rpc.
type RPCClient struct {
	client *rpc.Client
}

func (c *RPCClient) Metadata() (PluginMetadata, error) {
	var reply PluginMetadata
	err := c.client.Call("Plugin.Metadata", struct{}{}, &reply)
	return reply, err
}

func (c *RPCClient) Describe() ([]CommandDef, error) {
	var reply []CommandDef
	err := c.client.Call("Plugin.Describe", struct{}{}, &reply)
	return reply, err
}

func (c *RPCClient) Init() error {
	return c.client.Call("Plugin.Init", struct{}{}, &struct{}{})
}

func (c *RPCClient) Invoke(req InvokeRequest) (InvokeResponse, error) {
	var reply InvokeResponse
	err := c.client.Call("Plugin.Invoke", req, &reply)
	return reply, err
}

func (c *RPCClient) Unload() error {
	return c.client.Call("Plugin.Unload", struct{}{}, &struct{}{})
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "basecli"
	serviceName       = "basecli.plugin.v1.Plugin"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodInstall     = "/" + serviceName + "/Install"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BASECLI_PLUGIN",
	MagicCookieValue: "basecli",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InstallRequest struct {
	Name    string            `json:"name"`
	Cwd     string            `json:"cwd"`
	Options map[string]string `json:"options"`
}

type Operation struct {
	Method string `json:"method"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

type InstallResponse struct {
	Operations []Operation `json:"operations"`
}

type PluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Install(ctx context.Context, in *InstallRequest) (*InstallResponse, error)
}

type PluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Install(ctx context.Context, in *InstallRequest) (*InstallResponse, error)
}

type pluginClient struct {
	conn *grpc.ClientConn
}

func NewPluginClient(conn *grpc.ClientConn) PluginClient {
	return &pluginClient{conn: conn}
}

func (c *pluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pluginClient) Install(ctx context.Context, in *InstallRequest) (*InstallResponse, error) {
	out := &InstallResponse{}
	if err := c.conn.Invoke(ctx, methodInstall, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterPluginServer(server grpc.ServiceRegistrar, impl PluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*PluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Install",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &InstallRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Install(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodInstall}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*InstallRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Install(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/plugin-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl PluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewPluginClient(conn), nil
}

func PluginMap(impl PluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

package main

import (
	"context"
	"path/filepath"
	"sort"

	pluginrpc "basecli/internal/modules/cli/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

func (s *server) Install(_ context.Context, in *pluginrpc.InstallRequest) (*pluginrpc.InstallResponse, error) {
	ops := []pluginrpc.Operation{
		{Method: "enable", Key: "reference"},
		{Method: "define", Key: "reference.version", Value: "1.0.0"},
	}
	if in.Cwd != "" {
		ops = append(ops, pluginrpc.Operation{Method: "set", Key: "reference.project", Value: filepath.Base(in.Cwd)})
	}
	keys := make([]string, 0, len(in.Options))
	for k := range in.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ops = append(ops, pluginrpc.Operation{Method: "option", Key: "reference." + k, Value: in.Options[k]})
	}
	return &pluginrpc.InstallResponse{Operations: ops}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

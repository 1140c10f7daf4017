package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	pluginrpc "basecli/internal/modules/cli/adapter/out/rpc"
	"basecli/internal/modules/cli/domain"
	"basecli/internal/platform/hostapi"
	"basecli/internal/platform/logging"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCPlugin is an executable plugin. Install starts the binary through
// go-plugin, asks it for host operations and applies them.
type GRPCPlugin struct {
	manifest domain.Manifest
	logger   hclog.Logger
}

func NewGRPCPlugin(manifest domain.Manifest, logger hclog.Logger) *GRPCPlugin {
	return &GRPCPlugin{manifest: manifest, logger: logging.OrNull(logger)}
}

func (p *GRPCPlugin) Name() string {
	return p.manifest.Name
}

func (p *GRPCPlugin) Manifest() domain.Manifest {
	return p.manifest
}

func (p *GRPCPlugin) Install(ctx context.Context, host hostapi.Host) error {
	client, closeFn, err := p.connect(defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	if meta.Name != "" && meta.Name != p.manifest.Name {
		p.logger.Warn("plugin metadata name differs from manifest", "manifest", p.manifest.Name, "metadata", meta.Name)
	}
	response, err := client.Install(callCtx, &pluginrpc.InstallRequest{Name: p.manifest.Name, Cwd: host.Cwd()})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("install plugin %s: %w", p.manifest.Name, callCtx.Err())
		}
		return fmt.Errorf("install plugin: %w", err)
	}

	ops := make([]domain.Operation, 0, len(response.Operations))
	for _, op := range response.Operations {
		operation := domain.Operation{Method: op.Method, Key: op.Key, Value: op.Value}
		if err := operation.Validate(); err != nil {
			return err
		}
		ops = append(ops, operation)
	}
	for _, op := range ops {
		if err := apply(host, op); err != nil {
			return fmt.Errorf("apply %s %s: %w", op.Method, op.Key, err)
		}
	}
	return nil
}

func apply(host hostapi.Host, op domain.Operation) error {
	switch op.Method {
	case "set":
		return host.Set(op.Key, op.Value)
	case "option":
		return host.Option(op.Key, op.Value)
	case "data":
		return host.Data(op.Key, op.Value)
	case "define":
		return host.Define(op.Key, op.Value)
	case "enable":
		return host.Enable(op.Key)
	case "disable":
		return host.Disable(op.Key)
	case "del":
		return host.Del(op.Key)
	default:
		return fmt.Errorf("unknown plugin operation: %s", op.Method)
	}
}

func (p *GRPCPlugin) connect(startTimeout time.Duration) (pluginrpc.PluginClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(p.manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           p.logger,
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(pluginrpc.PluginClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

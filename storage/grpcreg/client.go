package grpcreg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/warden/model"
	"xdao.co/warden/storage"
)

// Client implements storage.Store over the Registry gRPC service and exposes
// the registration calls.
type Client struct {
	cc     *grpc.ClientConn
	client RegistryClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewRegistryClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Put(data []byte) (cid.Cid, error) {
	if c == nil || c.client == nil {
		return cid.Undef, storage.ErrNotFound
	}
	expected, err := storage.SumCID(data)
	if err != nil {
		return cid.Undef, err
	}

	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.PutConfig(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return cid.Undef, mapRPC(err)
	}
	id, err := cid.Decode(reply.GetValue())
	if err != nil || !id.Defined() {
		return cid.Undef, storage.ErrInvalidFingerprint
	}
	if id.String() != expected.String() {
		return cid.Undef, storage.ErrFingerprintMismatch
	}
	return id, nil
}

func (c *Client) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidFingerprint
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.GetConfig(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	got, err := storage.SumCID(b)
	if err != nil {
		return nil, err
	}
	if got.String() != id.String() {
		return nil, storage.ErrFingerprintMismatch
	}
	return b, nil
}

func (c *Client) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.HasConfig(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return false
	}
	return reply.GetValue()
}

// RegisterModule submits a signed module registration.
func (c *Client) RegisterModule(addr common.Address, name string, sigs []model.MemberSignature) error {
	return c.register("RegisterModule", model.RegistrationRequest{
		Kind: "module", Name: name, Address: addr.Hex(), Signatures: sigs,
	})
}

// RegisterUpgrader submits a signed upgrader registration.
func (c *Client) RegisterUpgrader(addr common.Address, name string, sigs []model.MemberSignature) error {
	return c.register("RegisterUpgrader", model.RegistrationRequest{
		Kind: "upgrader", Name: name, Address: addr.Hex(), Signatures: sigs,
	})
}

func (c *Client) register(method string, req model.RegistrationRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()

	switch method {
	case "RegisterModule":
		_, err = c.client.RegisterModule(ctx, wrapperspb.Bytes(payload))
	case "RegisterUpgrader":
		_, err = c.client.RegisterUpgrader(ctx, wrapperspb.Bytes(payload))
	}
	return mapRPC(err)
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

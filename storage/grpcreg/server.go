package grpcreg

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/warden/admin"
	"xdao.co/warden/model"
	"xdao.co/warden/storage"
)

// Server exposes a configuration store and the admin-guarded registration
// book over the Registry gRPC service.
//
// Journal, when set, records every newly stored configuration so the planner
// can later hydrate history from this daemon's store.
type Server struct {
	UnimplementedRegistryServer

	Store   storage.Store
	Journal storage.Journal
	Entries *Registrar
	Group   *admin.Group
}

func (s *Server) PutConfig(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	b := in.GetValue()
	// Enforce the content-address contract on the server side too.
	expected, err := storage.SumCID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "fingerprint computation failed")
	}
	known := s.Store.Has(expected)
	id, err := s.Store.Put(b)
	if err != nil {
		return nil, mapErr(err)
	}
	if id.String() != expected.String() {
		return nil, status.Error(codes.DataLoss, storage.ErrFingerprintMismatch.Error())
	}
	if s.Journal != nil && !known {
		if err := s.Journal.Append(id); err != nil {
			return nil, status.Error(codes.Internal, "journal append failed")
		}
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) GetConfig(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidFingerprint.Error())
	}
	b, err := s.Store.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	got, err := storage.SumCID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "fingerprint computation failed")
	}
	if got.String() != id.String() {
		return nil, status.Error(codes.DataLoss, storage.ErrFingerprintMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) HasConfig(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidFingerprint.Error())
	}
	return wrapperspb.Bool(s.Store.Has(id)), nil
}

func (s *Server) RegisterModule(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return s.register(ctx, admin.KindModule, in)
}

func (s *Server) RegisterUpgrader(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return s.register(ctx, admin.KindUpgrader, in)
}

func (s *Server) register(ctx context.Context, kind string, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Entries == nil || s.Group == nil {
		return nil, status.Error(codes.FailedPrecondition, "registration not configured")
	}

	var req model.RegistrationRequest
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed registration request")
	}
	if req.Kind != kind {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("kind %q does not match method", req.Kind))
	}
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "missing name")
	}
	if !common.IsHexAddress(req.Address) {
		return nil, status.Error(codes.InvalidArgument, "malformed address")
	}
	addr := common.HexToAddress(req.Address)

	sigs := make([]admin.MemberSignature, 0, len(req.Signatures))
	for _, ms := range req.Signatures {
		raw, err := base64.StdEncoding.DecodeString(ms.Sig)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "signature is not valid base64")
		}
		sigs = append(sigs, admin.MemberSignature{KeyID: ms.KeyID, Sig: raw})
	}
	if err := s.Group.Verify(admin.SubmissionBytes(kind, req.Name, addr), sigs); err != nil {
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}

	if err := s.Entries.Add(kind, req.Name, addr); err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(req.Name), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case err == storage.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case err == storage.ErrInvalidFingerprint:
		return status.Error(codes.InvalidArgument, err.Error())
	case err == storage.ErrFingerprintMismatch:
		return status.Error(codes.DataLoss, err.Error())
	case err == storage.ErrImmutable:
		return status.Error(codes.FailedPrecondition, err.Error())
	case err == ErrAlreadyRegistered:
		return status.Error(codes.AlreadyExists, err.Error())
	case err == errUnknownKind:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

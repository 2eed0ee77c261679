package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"ntv2/internal/job"
)

type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a running `ntv2 serve`. Without options the connection
// is insecure.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	cc, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

func (c *Client) List(ctx context.Context) ([]AlgorithmInfo, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listAlgorithmsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	var body struct {
		Algorithms []AlgorithmInfo `json:"algorithms"`
	}
	if err := fromStruct(out, &body); err != nil {
		return nil, err
	}
	return body.Algorithms, nil
}

func (c *Client) Transform(ctx context.Context, req job.Request) (*job.Result, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, transformMethod, in, out); err != nil {
		return nil, err
	}
	var res job.Result
	if err := fromStruct(out, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Close() error { return c.cc.Close() }

package transcoder

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"

	"github.com/your-org/vodflow/internal/jobs"
)

type createJobAPI interface {
	CreateJob(ctx context.Context, params *mediaconvert.CreateJobInput, optFns ...func(*mediaconvert.Options)) (*mediaconvert.CreateJobOutput, error)
}

// Config identifies the MediaConvert account endpoint, the role jobs run as
// and the job template that defines renditions and outputs.
//
// Jobs never override output destinations. The template must write its HLS
// and thumbnail groups under s3://<output bucket>/processed/<key without
// extension>/ (the OutputPrefix user metadata), because completion lists that
// prefix and finds nothing anywhere else.
type Config struct {
	Endpoint    string
	Region      string
	RoleARN     string
	JobTemplate string
}

// Client submits jobs to AWS Elemental MediaConvert.
type Client struct {
	api      createJobAPI
	role     string
	template string
	now      func() time.Time
}

// New loads the default AWS credential chain and builds a client bound to the
// account-specific endpoint.
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := mediaconvert.NewFromConfig(awsCfg, func(o *mediaconvert.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newClient(api, cfg), nil
}

func newClient(api createJobAPI, cfg Config) *Client {
	return &Client{
		api:      api,
		role:     cfg.RoleARN,
		template: cfg.JobTemplate,
		now:      time.Now,
	}
}

// CreateJob submits req and returns the transcoder-assigned job ID.
func (c *Client) CreateJob(ctx context.Context, req jobs.TranscodeRequest) (jobs.TranscodeJob, error) {
	out, err := c.api.CreateJob(ctx, c.buildInput(req))
	if err != nil {
		return jobs.TranscodeJob{}, fmt.Errorf("create mediaconvert job: %w", err)
	}
	if out == nil || out.Job == nil || aws.ToString(out.Job.Id) == "" {
		return jobs.TranscodeJob{}, fmt.Errorf("create mediaconvert job: response carried no job id")
	}

	return jobs.TranscodeJob{
		ID:        aws.ToString(out.Job.Id),
		InputURI:  req.InputURI,
		OutputURI: req.OutputURI,
	}, nil
}

// buildInput leaves outputs to the job template, see Config. Only the input
// file, the idempotency token and user metadata vary per job.
func (c *Client) buildInput(req jobs.TranscodeRequest) *mediaconvert.CreateJobInput {
	return &mediaconvert.CreateJobInput{
		Role:               aws.String(c.role),
		JobTemplate:        aws.String(c.template),
		ClientRequestToken: aws.String(req.IdempotencyToken),
		UserMetadata: map[string]string{
			"InputS3Uri":   req.InputURI,
			"ProcessedAt":  c.now().UTC().Format(time.RFC3339Nano),
			"OutputPrefix": req.OutputPrefix,
		},
		Settings: &types.JobSettings{
			Inputs: []types.Input{
				{FileInput: aws.String(req.InputURI)},
			},
		},
	}
}

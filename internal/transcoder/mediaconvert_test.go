package transcoder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/your-org/vodflow/internal/jobs"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) CreateJob(ctx context.Context, params *mediaconvert.CreateJobInput, _ ...func(*mediaconvert.Options)) (*mediaconvert.CreateJobOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*mediaconvert.CreateJobOutput)
	return out, args.Error(1)
}

var testReq = jobs.TranscodeRequest{
	InputURI:         "s3://uploads/clip.mp4",
	OutputPrefix:     "processed/clip/",
	OutputURI:        "s3://vod-output/processed/clip/",
	IdempotencyToken: "dXBsb2Fkcy9jbGlwLm1wNC8xNzE0NTY0",
}

func newTestClient(api createJobAPI) *Client {
	c := newClient(api, Config{RoleARN: "arn:aws:iam::1:role/mc", JobTemplate: "hls-abr"})
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCreateJobBuildsTemplateRequest(t *testing.T) {
	api := &mockAPI{}
	api.On("CreateJob", mock.Anything, mock.MatchedBy(func(in *mediaconvert.CreateJobInput) bool {
		return aws.ToString(in.Role) == "arn:aws:iam::1:role/mc" &&
			aws.ToString(in.JobTemplate) == "hls-abr" &&
			aws.ToString(in.ClientRequestToken) == testReq.IdempotencyToken &&
			in.UserMetadata["InputS3Uri"] == "s3://uploads/clip.mp4" &&
			in.UserMetadata["OutputPrefix"] == "processed/clip/" &&
			in.UserMetadata["ProcessedAt"] == "2024-05-01T12:00:00Z" &&
			len(in.Settings.Inputs) == 1 &&
			aws.ToString(in.Settings.Inputs[0].FileInput) == "s3://uploads/clip.mp4"
	})).Return(&mediaconvert.CreateJobOutput{Job: &types.Job{Id: aws.String("1714564800000-abc123")}}, nil)

	job, err := newTestClient(api).CreateJob(context.Background(), testReq)
	require.NoError(t, err)
	assert.Equal(t, jobs.TranscodeJob{
		ID:        "1714564800000-abc123",
		InputURI:  testReq.InputURI,
		OutputURI: testReq.OutputURI,
	}, job)
	api.AssertExpectations(t)
}

func TestCreateJobWrapsAPIError(t *testing.T) {
	boom := errors.New("throttled")
	api := &mockAPI{}
	api.On("CreateJob", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := newTestClient(api).CreateJob(context.Background(), testReq)
	assert.ErrorIs(t, err, boom)
}

func TestCreateJobRejectsMissingJobID(t *testing.T) {
	api := &mockAPI{}
	api.On("CreateJob", mock.Anything, mock.Anything).Return(&mediaconvert.CreateJobOutput{Job: &types.Job{}}, nil)

	_, err := newTestClient(api).CreateJob(context.Background(), testReq)
	assert.ErrorContains(t, err, "no job id")
}

func TestBuildInputLeavesDestinationsToTemplate(t *testing.T) {
	in := newTestClient(&mockAPI{}).buildInput(testReq)

	assert.Empty(t, in.Settings.OutputGroups)
	assert.Equal(t, jobs.OutputPrefix("clip.mp4"), in.UserMetadata["OutputPrefix"])
}

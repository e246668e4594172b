package s3evidence

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHeadObjectAPI struct {
	mock.Mock
}

func (m *MockHeadObjectAPI) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	_ ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, *params.Bucket, *params.Key)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func TestVerify_AcceptsUploadedImages(t *testing.T) {
	client := new(MockHeadObjectAPI)
	client.On("HeadObject", mock.Anything, "proofs", "jobs/1/pickup.jpg").Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", mock.Anything, "proofs", "jobs/1/drop.jpg").Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", mock.Anything, "proofs", "jobs/1/door.jpg").Return(&s3.HeadObjectOutput{}, nil)

	err := newVerifier(client, "proofs").Verify(context.Background(), []string{
		"jobs/1/pickup.jpg",
		"https://proofs.s3.us-east-1.amazonaws.com/jobs/1/drop.jpg",
		"s3://proofs/jobs/1/door.jpg",
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestVerify_MissingImage(t *testing.T) {
	client := new(MockHeadObjectAPI)
	client.On("HeadObject", mock.Anything, "proofs", "missing.jpg").Return(nil, &types.NotFound{})

	err := newVerifier(client, "proofs").Verify(context.Background(), []string{"missing.jpg"})

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestVerify_OtherBucketIsRejected(t *testing.T) {
	client := new(MockHeadObjectAPI)

	err := newVerifier(client, "proofs").Verify(context.Background(), []string{"s3://elsewhere/a.jpg"})

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	client.AssertNotCalled(t, "HeadObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_StorageFailureIsNotAValidationError(t *testing.T) {
	client := new(MockHeadObjectAPI)
	client.On("HeadObject", mock.Anything, "proofs", "a.jpg").Return(nil, errors.New("connection reset"))

	err := newVerifier(client, "proofs").Verify(context.Background(), []string{"a.jpg"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrValueIsInvalid)
}

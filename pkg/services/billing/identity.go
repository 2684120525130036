package billing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// IdentityAPI is the slice of the STS client used to resolve the
// calling account.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// IdentityService resolves the account the report is generated for.
// Unlike the cost queries this lookup is required: without account
// context no report is possible.
type IdentityService struct {
	api IdentityAPI
}

func NewIdentityService(cfg aws.Config) *IdentityService {
	return NewIdentityServiceWithAPI(sts.NewFromConfig(cfg))
}

func NewIdentityServiceWithAPI(api IdentityAPI) *IdentityService {
	return &IdentityService{api: api}
}

// ResolveAccountID returns the caller's account id. Errors are fatal to
// the run.
func (s *IdentityService) ResolveAccountID(ctx context.Context) (string, error) {
	output, err := s.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to resolve AWS account identity: %w", err)
	}
	return aws.ToString(output.Account), nil
}

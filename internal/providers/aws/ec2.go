// ABOUTME: AWS EC2 asset source discovering running instances as directory assets.
// ABOUTME: Maps instance tags to asset metadata with cross-account role support.

package aws

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// Instance tags mapped into asset records.
const (
	nameTag        = "Name"
	ownerTag       = "Owner"
	criticalityTag = "Criticality"
)

// EC2Source implements AssetSource for Amazon EC2 instance inventories
type EC2Source struct {
	client *ec2.Client
	region string
	logger *logrus.Logger
}

// NewEC2Source creates a new EC2 asset source
func NewEC2Source(ctx context.Context, region string, logger *logrus.Logger) (*EC2Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Check if we need to assume a role based on AWS_IAM_ASSUME_ROLE_ARN environment variable
	if assumeRoleARN := os.Getenv("AWS_IAM_ASSUME_ROLE_ARN"); assumeRoleARN != "" {
		logger.WithField("role_arn", assumeRoleARN).Info("Assuming role from AWS_IAM_ASSUME_ROLE_ARN environment variable")

		currentCfg := cfg.Copy()
		stsClient := sts.NewFromConfig(currentCfg)

		// Create STS credentials for role assumption
		cfg.Credentials = stscreds.NewAssumeRoleProvider(stsClient, assumeRoleARN)
	} else {
		currentCfg := cfg.Copy()
		stsClient := sts.NewFromConfig(currentCfg)

		identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			logger.WithError(err).Warn("Could not get caller identity, proceeding with default credentials")
		} else {
			logger.WithFields(logrus.Fields{
				"account": aws.ToString(identity.Account),
				"region":  region,
			}).Info("AWS identity information")
		}
	}

	return &EC2Source{
		client: ec2.NewFromConfig(cfg),
		region: region,
		logger: logger,
	}, nil
}

// Name returns the asset source name
func (e *EC2Source) Name() string {
	return "aws-ec2"
}

// LoadAssets discovers running instances and maps them to asset records
func (e *EC2Source) LoadAssets(ctx context.Context) (map[string]types.AssetRecord, error) {
	logger := e.logger.WithField("operation", "load_assets_ec2")

	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	}

	assets := make(map[string]types.AssetRecord)
	skipped := 0

	paginator := ec2.NewDescribeInstancesPaginator(e.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				record, usable, err := e.assetFromInstance(instance)
				if err != nil {
					return nil, err
				}
				if !usable {
					skipped++
					continue
				}

				if _, exists := assets[record.IPAddress]; exists {
					logger.WithField("ip_address", record.IPAddress).Debug("Duplicate address, keeping last record")
				}
				assets[record.IPAddress] = record
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"asset_count":       len(assets),
		"skipped_instances": skipped,
	}).Info("Loaded asset directory from EC2")
	return assets, nil
}

// assetFromInstance maps one instance to an asset record. Instances
// without a private address are not usable as directory entries; a
// Criticality tag that is present but not numeric fails the load.
func (e *EC2Source) assetFromInstance(instance ec2types.Instance) (types.AssetRecord, bool, error) {
	address := aws.ToString(instance.PrivateIpAddress)
	if address == "" {
		return types.AssetRecord{}, false, nil
	}

	name := tagValue(instance.Tags, nameTag)
	if name == "" {
		name = aws.ToString(instance.InstanceId)
	}

	crit := 1
	if raw := tagValue(instance.Tags, criticalityTag); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return types.AssetRecord{}, false, fmt.Errorf("instance %s has non-numeric %s tag %q",
				aws.ToString(instance.InstanceId), criticalityTag, raw)
		}
		if parsed < 1 {
			e.logger.WithFields(logrus.Fields{
				"instance_id": aws.ToString(instance.InstanceId),
				"criticality": parsed,
			}).Warn("Criticality tag below 1, defaulting to 1")
			parsed = 1
		}
		crit = parsed
	}

	return types.AssetRecord{
		IPAddress:   address,
		Name:        name,
		Owner:       tagValue(instance.Tags, ownerTag),
		Criticality: crit,
	}, true, nil
}

// tagValue returns the trimmed value of the first tag with the given key.
func tagValue(tags []ec2types.Tag, key string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == key {
			return strings.TrimSpace(aws.ToString(tag.Value))
		}
	}
	return ""
}

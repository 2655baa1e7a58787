package aws

import (
	"context"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fleetscope/fleetscope/internal/domain/inventory"
)

// ListInstances pages through DescribeInstances and maps every
// non-terminated instance into a domain record stamped with origin.
func ListInstances(ctx context.Context, client EC2API, origin inventory.Origin) ([]inventory.Instance, error) {
	var records []inventory.Instance
	var nextToken *string

	for {
		out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, err
		}

		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				if inst.State != nil && inst.State.Name == ec2types.InstanceStateNameTerminated {
					continue
				}
				records = append(records, mapInstance(inst, origin))
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return records, nil
}

func mapInstance(inst ec2types.Instance, origin inventory.Origin) inventory.Instance {
	rec := inventory.Instance{
		Origin:       origin,
		InstanceID:   awssdk.ToString(inst.InstanceId),
		InstanceType: string(inst.InstanceType),
		PrivateIP:    awssdk.ToString(inst.PrivateIpAddress),
		PublicIP:     awssdk.ToString(inst.PublicIpAddress),
		VPCID:        awssdk.ToString(inst.VpcId),
	}
	if inst.State != nil {
		rec.State = string(inst.State.Name)
	}
	if inst.Placement != nil {
		rec.AZ = awssdk.ToString(inst.Placement.AvailabilityZone)
	}
	rec.Tags = tagMap(inst.Tags)
	rec.Name = rec.Tags["Name"]
	return rec
}

// ListDBInstances pages through DescribeDBInstances via the Marker
// protocol and maps each database into a domain record.
func ListDBInstances(ctx context.Context, client RDSAPI, origin inventory.Origin) ([]inventory.DBInstance, error) {
	var records []inventory.DBInstance
	var marker *string

	for {
		out, err := client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
			Marker: marker,
		})
		if err != nil {
			return nil, err
		}

		for _, db := range out.DBInstances {
			rec := inventory.DBInstance{
				Origin:        origin,
				Identifier:    awssdk.ToString(db.DBInstanceIdentifier),
				Engine:        awssdk.ToString(db.Engine),
				EngineVersion: awssdk.ToString(db.EngineVersion),
				InstanceClass: awssdk.ToString(db.DBInstanceClass),
				Status:        awssdk.ToString(db.DBInstanceStatus),
				MultiAZ:       awssdk.ToBool(db.MultiAZ),
				StorageGB:     awssdk.ToInt32(db.AllocatedStorage),
			}
			if db.Endpoint != nil {
				rec.Endpoint = awssdk.ToString(db.Endpoint.Address)
				rec.Port = awssdk.ToInt32(db.Endpoint.Port)
			}
			records = append(records, rec)
		}

		if out.Marker == nil {
			break
		}
		marker = out.Marker
	}

	return records, nil
}

// ListBuckets maps the account-global bucket listing. The origin region
// is the canonical listing region, not where each bucket's data lives.
func ListBuckets(ctx context.Context, client S3API, origin inventory.Origin) ([]inventory.Bucket, error) {
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	records := make([]inventory.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		rec := inventory.Bucket{
			Origin: origin,
			Name:   awssdk.ToString(b.Name),
		}
		if b.CreationDate != nil {
			rec.CreatedAt = b.CreationDate.UTC().Format(time.RFC3339)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ListVPCs pages through DescribeVpcs and maps each VPC into a domain
// record.
func ListVPCs(ctx context.Context, client EC2API, origin inventory.Origin) ([]inventory.VPC, error) {
	var records []inventory.VPC
	var nextToken *string

	for {
		out, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, err
		}

		for _, vpc := range out.Vpcs {
			rec := inventory.VPC{
				Origin:    origin,
				VPCID:     awssdk.ToString(vpc.VpcId),
				CIDRBlock: awssdk.ToString(vpc.CidrBlock),
				State:     string(vpc.State),
				IsDefault: awssdk.ToBool(vpc.IsDefault),
			}
			rec.Tags = tagMap(vpc.Tags)
			rec.Name = rec.Tags["Name"]
			records = append(records, rec)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return records, nil
}

func tagMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[awssdk.ToString(t.Key)] = awssdk.ToString(t.Value)
	}
	return m
}

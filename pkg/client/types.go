package client

import "time"

// Account is a linked AWS account as reported by the API.
type Account struct {
	ID           string     `json:"id"`
	AWSAccountID string     `json:"aws_account_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	RoleARN      string     `json:"role_arn"`
	State        string     `json:"state"`
	LastVerified *time.Time `json:"last_verified,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VerificationResult is the outcome of an account verification.
type VerificationResult struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	ARN       string `json:"arn,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Origin says which account and region a record came from.
type Origin struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Region      string `json:"region"`
}

// Instance is an aggregated EC2 instance.
type Instance struct {
	Origin
	InstanceID   string            `json:"instance_id"`
	Name         string            `json:"name,omitempty"`
	InstanceType string            `json:"instance_type"`
	State        string            `json:"state"`
	AZ           string            `json:"az,omitempty"`
	PrivateIP    string            `json:"private_ip,omitempty"`
	PublicIP     string            `json:"public_ip,omitempty"`
	VPCID        string            `json:"vpc_id,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// DBInstance is an aggregated RDS database.
type DBInstance struct {
	Origin
	Identifier    string `json:"identifier"`
	Engine        string `json:"engine"`
	EngineVersion string `json:"engine_version,omitempty"`
	InstanceClass string `json:"instance_class"`
	Status        string `json:"status"`
	Endpoint      string `json:"endpoint,omitempty"`
	Port          int32  `json:"port,omitempty"`
	MultiAZ       bool   `json:"multi_az"`
	StorageGB     int32  `json:"storage_gb"`
}

// Bucket is an aggregated S3 bucket.
type Bucket struct {
	Origin
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// VPC is an aggregated virtual network.
type VPC struct {
	Origin
	VPCID     string            `json:"vpc_id"`
	Name      string            `json:"name,omitempty"`
	CIDRBlock string            `json:"cidr_block"`
	State     string            `json:"state"`
	IsDefault bool              `json:"is_default"`
	Tags      map[string]string `json:"tags,omitempty"`
}

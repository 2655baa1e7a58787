package inventory

// Kind identifies one aggregatable resource kind.
type Kind string

const (
	KindInstance   Kind = "instance"
	KindDBInstance Kind = "db_instance"
	KindBucket     Kind = "bucket"
	KindVPC        Kind = "vpc"
)

// Valid reports whether k is a known resource kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInstance, KindDBInstance, KindBucket, KindVPC:
		return true
	}
	return false
}

// Global reports whether the kind lives in a global namespace and is
// listed from a single canonical region.
func (k Kind) Global() bool {
	return k == KindBucket
}

// Origin denormalizes where a record came from so aggregated lists stay
// self-describing without a join.
type Origin struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Region      string `json:"region"`
}

// Instance is an EC2 instance record.
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

// DBInstance is an RDS database instance record.
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

// Bucket is an S3 bucket record.
type Bucket struct {
	Origin
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// VPC is a virtual network record.
type VPC struct {
	Origin
	VPCID     string            `json:"vpc_id"`
	Name      string            `json:"name,omitempty"`
	CIDRBlock string            `json:"cidr_block"`
	State     string            `json:"state"`
	IsDefault bool              `json:"is_default"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Filter narrows an aggregation request. A nil field means "no filter".
// An AccountID that names a missing or unverified account yields an
// empty result, never an error.
type Filter struct {
	AccountID *string
	Region    *string
}

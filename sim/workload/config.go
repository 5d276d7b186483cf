package workload

// Config holds the parameters AzureWorkload samples its synthetic
// application/function population from.
type Config struct {
	// ApplicationNumber is how many applications to synthesize.
	ApplicationNumber int `yaml:"application_number"`
	// ApplicationInvocationLimit is the target total invocation count every
	// generated minute is rescaled to (mirrors global_config's
	// application_invocation_limit).
	ApplicationInvocationLimit int `yaml:"application_invocation_limit"`
}

// DefaultConfig mirrors a modestly-sized Azure Functions deployment.
var DefaultConfig = Config{
	ApplicationNumber:          20,
	ApplicationInvocationLimit: 2000,
}

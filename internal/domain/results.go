package domain

// ResultKind tags the variants of PhaseResult.
type ResultKind int

const (
	KindCodeAnalysis ResultKind = iota
	KindSecurity
	KindInfrastructure
	KindDeployment

	// NumResultKinds is the number of result slots a pipeline run holds.
	NumResultKinds
)

// String returns a human readable label for the kind.
func (k ResultKind) String() string {
	switch k {
	case KindCodeAnalysis:
		return "code analysis"
	case KindSecurity:
		return "security scan"
	case KindInfrastructure:
		return "infrastructure planning"
	case KindDeployment:
		return "deployment orchestration"
	default:
		return "unknown"
	}
}

// PhaseResult is the payload one pipeline phase stores once its agent call succeeds.
// It is implemented by CodeAnalysisResult, SecurityResult, InfrastructureResult
// and DeploymentSummary.
type PhaseResult interface {
	Kind() ResultKind
}

// TechStack describes the detected language and tooling of a repository.
type TechStack struct {
	Language       string `json:"language"`
	Framework      string `json:"framework"`
	PackageManager string `json:"package_manager"`
	RuntimeVersion string `json:"runtime_version"`
}

// Blocker is an issue that prevents a repository from being deployed as-is.
type Blocker struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
	Description string `json:"description"`
	AutoFix     string `json:"auto_fix"`
}

// CodeAnalysisResult is returned by the code analysis agent.
type CodeAnalysisResult struct {
	TechStack       TechStack `json:"tech_stack"`
	Blockers        []Blocker `json:"blockers"`
	ReadinessScore  float64   `json:"readiness_score"`
	Recommendations []string  `json:"recommendations"`
}

func (CodeAnalysisResult) Kind() ResultKind { return KindCodeAnalysis }

type ExposedCredential struct {
	Type           string `json:"type"`
	Location       string `json:"location"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

type Vulnerability struct {
	Package        string `json:"package"`
	CurrentVersion string `json:"current_version"`
	CVEID          string `json:"cve_id"`
	Severity       string `json:"severity"`
	FixedVersion   string `json:"fixed_version"`
	Description    string `json:"description"`
}

type SecurityHeaders struct {
	Configured      []string `json:"configured"`
	Missing         []string `json:"missing"`
	Recommendations []string `json:"recommendations"`
}

type Compliance struct {
	SOC2Ready bool     `json:"soc2_ready"`
	GDPRReady bool     `json:"gdpr_ready"`
	Issues    []string `json:"issues"`
}

// SecurityResult is returned by the security scanner agent.
type SecurityResult struct {
	SecurityClearance  string              `json:"security_clearance"`
	RiskLevel          string              `json:"risk_level"`
	ExposedCredentials []ExposedCredential `json:"exposed_credentials"`
	Vulnerabilities    []Vulnerability     `json:"vulnerabilities"`
	SecurityHeaders    SecurityHeaders     `json:"security_headers"`
	Compliance         Compliance          `json:"compliance"`
	OverallScore       float64             `json:"overall_score"`
}

func (SecurityResult) Kind() ResultKind { return KindSecurity }

type ServiceScaling struct {
	MinInstances int  `json:"min_instances"`
	MaxInstances int  `json:"max_instances"`
	AutoScale    bool `json:"auto_scale"`
}

type Service struct {
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	InstanceType string         `json:"instance_type"`
	Scaling      ServiceScaling `json:"scaling"`
}

type Database struct {
	Type   string `json:"type"`
	Size   string `json:"size"`
	Backup bool   `json:"backup"`
}

type InfrastructureDesign struct {
	Services           []Service  `json:"services"`
	Databases          []Database `json:"databases"`
	AdditionalServices []string   `json:"additional_services"`
}

type MonthlyCost struct {
	Compute    float64 `json:"compute"`
	Database   float64 `json:"database"`
	Networking float64 `json:"networking"`
	Storage    float64 `json:"storage"`
	Total      float64 `json:"total"`
}

type CostEstimate struct {
	MonthlyCost MonthlyCost `json:"monthly_cost"`
	Currency    string      `json:"currency"`
	Breakdown   string      `json:"breakdown"`
}

type DeploymentConfig struct {
	BuildCommand         string   `json:"build_command"`
	StartCommand         string   `json:"start_command"`
	EnvironmentVariables []string `json:"environment_variables"`
	Port                 int      `json:"port"`
	HealthCheck          string   `json:"health_check"`
}

// InfrastructureResult is returned by the infrastructure planning agent.
type InfrastructureResult struct {
	RecommendedPlatform   string               `json:"recommended_platform"`
	PlatformJustification string               `json:"platform_justification"`
	InfrastructureDesign  InfrastructureDesign `json:"infrastructure_design"`
	CostEstimate          CostEstimate         `json:"cost_estimate"`
	DeploymentConfig      DeploymentConfig     `json:"deployment_config"`
	ProvisioningSteps     []string             `json:"provisioning_steps"`
	EstimatedTime         string               `json:"estimated_time"`
}

func (InfrastructureResult) Kind() ResultKind { return KindInfrastructure }

type CodeAnalysisSummary struct {
	TechStack        string  `json:"tech_stack"`
	ReadinessScore   float64 `json:"readiness_score"`
	CriticalBlockers int     `json:"critical_blockers"`
	Status           string  `json:"status"`
}

type SecuritySummary struct {
	SecurityClearance       string `json:"security_clearance"`
	RiskLevel               string `json:"risk_level"`
	CriticalVulnerabilities int    `json:"critical_vulnerabilities"`
	Status                  string `json:"status"`
}

type InfrastructureSummary struct {
	RecommendedPlatform  string  `json:"recommended_platform"`
	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`
	ProvisioningReady    bool    `json:"provisioning_ready"`
	Status               string  `json:"status"`
}

// DeploymentSummary is returned by the deployment orchestrator agent.
type DeploymentSummary struct {
	DeploymentDecision      string                `json:"deployment_decision"`
	DecisionJustification   string                `json:"decision_justification"`
	OverallReadinessScore   float64               `json:"overall_readiness_score"`
	RepositoryURL           string                `json:"repository_url"`
	CodeAnalysisSummary     CodeAnalysisSummary   `json:"code_analysis_summary"`
	SecuritySummary         SecuritySummary       `json:"security_summary"`
	InfrastructureSummary   InfrastructureSummary `json:"infrastructure_summary"`
	NextSteps               []string              `json:"next_steps"`
	EstimatedDeploymentTime string                `json:"estimated_deployment_time"`
	ApprovalRequired        bool                  `json:"approval_required"`
}

func (DeploymentSummary) Kind() ResultKind { return KindDeployment }

// ChatReply is returned by the chat assistant agent.
type ChatReply struct {
	Response string `json:"response"`
}

package domain

// StepDefinition declares one step of a workflow: where its request goes and
// where its compensation goes. Path templates may contain placeholders such
// as {order_id}, resolved at invocation time from the step's payload.
type StepDefinition struct {
	StepName           string
	ServiceName        string
	RequestPath        string
	RequestMethod      string
	CompensationPath   string
	CompensationMethod string
}

// BindingSource says where a bound value is read from.
type BindingSource string

const (
	// BindingFromResponse reads the identifier the step's response produced.
	BindingFromResponse BindingSource = "response"
	// BindingFromPayload carries a field of the step's own payload forward.
	BindingFromPayload BindingSource = "payload"
)

// OutputBinding forwards one value produced by a step into a later step's
// payload. Bindings are declared per workflow, keeping the engine free of
// any per-step-name knowledge.
type OutputBinding struct {
	FromStep  string
	Source    BindingSource
	OutputKey string
	ToStep    string
	InputKey  string
}

// ResultBinding exposes the identifier a step produced under a named key in
// the saga's final result data.
type ResultBinding struct {
	StepName string
	Key      string
}

// Workflow is an ordered list of step definitions plus its binding tables.
// Workflows are purely declarative; adding one never touches the engine.
type Workflow struct {
	Name     string
	Steps    []StepDefinition
	Bindings []OutputBinding
	Results  []ResultBinding
}

// BindingsFrom returns the bindings whose source step is stepName and whose
// target is the step at the given index's name.
func (w Workflow) BindingsFrom(stepName, toStep string) []OutputBinding {
	var out []OutputBinding
	for _, b := range w.Bindings {
		if b.FromStep == stepName && b.ToStep == toStep {
			out = append(out, b)
		}
	}
	return out
}

// WorkflowRegistry is the declarative catalog of named workflows.
type WorkflowRegistry struct {
	workflows map[string]Workflow
}

// NewWorkflowRegistry creates an empty registry
func NewWorkflowRegistry() *WorkflowRegistry {
	return &WorkflowRegistry{workflows: make(map[string]Workflow)}
}

// Register adds a workflow under its name, replacing any previous entry.
func (r *WorkflowRegistry) Register(workflow Workflow) {
	r.workflows[workflow.Name] = workflow
}

// Get returns the workflow registered under name.
func (r *WorkflowRegistry) Get(name string) (Workflow, bool) {
	w, ok := r.workflows[name]
	return w, ok
}

// Saga type names known to the platform.
const (
	SagaTypeOrderProcessing  = "order_processing"
	SagaTypeOrderFulfillment = "order_fulfillment"
)

// OrderProcessingWorkflow is the transactional core of a purchase:
// create order -> process payment -> confirm order. The order id produced by
// the first step flows into the payment step; the payment step carries it
// forward so the confirmation path template can resolve it.
func OrderProcessingWorkflow() Workflow {
	return Workflow{
		Name: SagaTypeOrderProcessing,
		Steps: []StepDefinition{
			{
				StepName:           "create_order",
				ServiceName:        "order-service",
				RequestPath:        "/orders/internal",
				RequestMethod:      "POST",
				CompensationPath:   "/orders/{order_id}/compensate",
				CompensationMethod: "POST",
			},
			{
				StepName:           "process_payment",
				ServiceName:        "payment-service",
				RequestPath:        "/payments/internal",
				RequestMethod:      "POST",
				CompensationPath:   "/payments/{payment_id}/compensate",
				CompensationMethod: "POST",
			},
			{
				StepName:           "confirm_order",
				ServiceName:        "order-service",
				RequestPath:        "/orders/{order_id}/confirm",
				RequestMethod:      "PUT",
				CompensationPath:   "/orders/{order_id}/compensate",
				CompensationMethod: "POST",
			},
		},
		Bindings: []OutputBinding{
			{FromStep: "create_order", Source: BindingFromResponse, OutputKey: "id", ToStep: "process_payment", InputKey: OrderIDKey},
			{FromStep: "create_order", Source: BindingFromPayload, OutputKey: CustomerIDKey, ToStep: "process_payment", InputKey: CustomerIDKey},
			{FromStep: "process_payment", Source: BindingFromPayload, OutputKey: OrderIDKey, ToStep: "confirm_order", InputKey: OrderIDKey},
		},
		Results: []ResultBinding{
			{StepName: "create_order", Key: OrderIDKey},
			{StepName: "process_payment", Key: PaymentIDKey},
		},
	}
}

// OrderFulfillmentWorkflow drives a confirmed order to the courier:
// accept order -> assign driver -> update order status.
func OrderFulfillmentWorkflow() Workflow {
	return Workflow{
		Name: SagaTypeOrderFulfillment,
		Steps: []StepDefinition{
			{
				StepName:           "accept_order",
				ServiceName:        "restaurant-service",
				RequestPath:        "/orders/{order_id}/accept",
				RequestMethod:      "POST",
				CompensationPath:   "/orders/{order_id}/cancel",
				CompensationMethod: "POST",
			},
			{
				StepName:           "assign_driver",
				ServiceName:        "dispatch-service",
				RequestPath:        "/orders/{order_id}/assign",
				RequestMethod:      "POST",
				CompensationPath:   "/deliveries/{order_id}/cancel",
				CompensationMethod: "POST",
			},
			{
				StepName:           "update_order_status",
				ServiceName:        "order-service",
				RequestPath:        "/orders/{order_id}/status",
				RequestMethod:      "PUT",
				CompensationPath:   "/orders/{order_id}/compensate",
				CompensationMethod: "POST",
			},
		},
		Bindings: []OutputBinding{
			{FromStep: "accept_order", Source: BindingFromPayload, OutputKey: OrderIDKey, ToStep: "assign_driver", InputKey: OrderIDKey},
			{FromStep: "assign_driver", Source: BindingFromPayload, OutputKey: OrderIDKey, ToStep: "update_order_status", InputKey: OrderIDKey},
		},
		Results: []ResultBinding{
			{StepName: "assign_driver", Key: "delivery_id"},
		},
	}
}

// DefaultRegistry returns a registry with the platform's built-in workflows.
func DefaultRegistry() *WorkflowRegistry {
	registry := NewWorkflowRegistry()
	registry.Register(OrderProcessingWorkflow())
	registry.Register(OrderFulfillmentWorkflow())
	return registry
}

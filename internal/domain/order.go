package domain

import "time"

// Known order statuses. Status is free text; these are what the admin UI offers.
const (
	StatusNew       = "New"
	StatusAccepted  = "Accepted"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

type OrderItem struct {
	ProductID int64   `json:"productId,omitempty" yaml:"productId"`
	Name      string  `json:"name" yaml:"name"`
	Price     float64 `json:"price" yaml:"price"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	Image     string  `json:"image,omitempty" yaml:"image"`
}

type Order struct {
	ID               int64       `json:"id" yaml:"id"`
	CustomerID       int64       `json:"customerId,omitempty" yaml:"customerId"`
	CustomerName     string      `json:"customerName" yaml:"customerName"`
	CustomerEmail    string      `json:"customerEmail" yaml:"customerEmail"`
	CustomerPhone    string      `json:"customerPhone" yaml:"customerPhone"`
	DeliveryLocation string      `json:"deliveryLocation" yaml:"deliveryLocation"`
	PaymentMethod    string      `json:"paymentMethod,omitempty" yaml:"paymentMethod"`
	OrderDate        time.Time   `json:"orderDate" yaml:"orderDate"`
	Items            []OrderItem `json:"items" yaml:"items"`
	Subtotal         float64     `json:"subtotal" yaml:"subtotal"`
	DeliveryFee      float64     `json:"deliveryFee" yaml:"deliveryFee"`
	TotalAmount      float64     `json:"totalAmount" yaml:"totalAmount"`
	Status           string      `json:"status" yaml:"status"`
	UpdatedAt        time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

type OrderStats struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
}

type CartItem struct {
	ProductID int64   `json:"productId"`
	Corner    Corner  `json:"corner"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

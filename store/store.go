package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"retailpos/models"
	"retailpos/utils"
)

// Mutation errors surfaced to handlers.
var (
	ErrProductExists     = errors.New("a product with this code already exists")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductRemoved    = errors.New("product no longer exists in inventory")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBillNotFound      = errors.New("bill not found")
	ErrFeedbackExists    = errors.New("feedback already submitted for this bill")
)

// Store owns the working state of the application: the product list, the
// append-only bill history, the transient cart, and the email settings.
// Mutations are serialized behind a mutex and written back to the slot
// store asynchronously; a failed save is logged, never surfaced, so
// persistence cannot gate a sale.
type Store struct {
	mu    sync.RWMutex
	slots SlotStore

	products      []models.Product
	bills         []models.Bill
	cart          []models.CartItem
	emailSettings models.EmailSettings
}

func New(slots SlotStore, defaults models.EmailSettings) *Store {
	return &Store{
		slots:         slots,
		products:      SeedProducts(),
		bills:         []models.Bill{},
		cart:          []models.CartItem{},
		emailSettings: defaults,
	}
}

// SeedProducts is the inventory a fresh install starts with.
func SeedProducts() []models.Product {
	return []models.Product{
		{Code: "P001", Name: "Laptop", Price: 50000, Stock: 10},
		{Code: "P002", Name: "Mouse", Price: 500, Stock: 25},
		{Code: "P003", Name: "Keyboard", Price: 1500, Stock: 15},
	}
}

// Load pulls the persisted slots into memory. A missing or malformed slot
// falls back to its default (seed products, empty bills, boot settings)
// instead of failing: stale data should never stop the register.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, found, err := s.slots.Load(ctx, SlotProducts); err != nil {
		return err
	} else if found {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err != nil {
			log.Printf("Malformed products slot, using seed products: %v", err)
		} else {
			s.products = products
		}
	}

	if data, found, err := s.slots.Load(ctx, SlotBills); err != nil {
		return err
	} else if found {
		var bills []models.Bill
		if err := json.Unmarshal(data, &bills); err != nil {
			log.Printf("Malformed bills slot, starting with empty history: %v", err)
		} else {
			s.bills = bills
		}
	}

	if data, found, err := s.slots.Load(ctx, SlotEmailSettings); err != nil {
		return err
	} else if found {
		var settings models.EmailSettings
		if err := json.Unmarshal(data, &settings); err != nil {
			log.Printf("Malformed email settings slot, using boot defaults: %v", err)
		} else {
			s.emailSettings = settings
		}
	}

	return nil
}

// Snapshot returns copies of the bill history and product list for the
// analytics computation.
func (s *Store) Snapshot() ([]models.Bill, []models.Product) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBills(s.bills), copyProducts(s.products)
}

// --- Products ---

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProducts(s.products)
}

func (s *Store) FindProduct(code string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Code == code {
			return p, true
		}
	}
	return models.Product{}, false
}

// SearchProducts matches the query against product names and codes,
// case-insensitively.
func (s *Store) SearchProducts(query string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	matches := []models.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Code), q) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (s *Store) AddProduct(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Code == p.Code {
			return ErrProductExists
		}
	}
	s.products = append(s.products, p)
	s.saveProductsLocked()
	return nil
}

// UpdateProduct replaces the product with the given code. The code itself
// is immutable.
func (s *Store) UpdateProduct(code string, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.Code == code {
			p.Code = code
			s.products[i] = p
			s.saveProductsLocked()
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *Store) DeleteProduct(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.Code == code {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.saveProductsLocked()
			return nil
		}
	}
	return ErrProductNotFound
}

// --- Cart ---

func (s *Store) Cart() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart := make([]models.CartItem, len(s.cart))
	copy(cart, s.cart)
	return cart
}

func (s *Store) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartTotalLocked(s.cart)
}

// AddToCart puts quantity units of a product into the cart, merging with
// an existing line for the same code. Stock is checked against the total
// quantity the cart would then hold.
func (s *Store) AddToCart(code string, quantity int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.findProductLocked(code)
	if !ok {
		return models.CartItem{}, ErrProductNotFound
	}

	inCart := 0
	existing := -1
	for i, item := range s.cart {
		if item.Code == code {
			inCart = item.Quantity
			existing = i
		}
	}

	if product.Stock < inCart+quantity {
		return models.CartItem{}, ErrInsufficientStock
	}

	if existing >= 0 {
		s.cart[existing].Quantity += quantity
		return s.cart[existing], nil
	}
	item := models.CartItem{Product: product, Quantity: quantity}
	s.cart = append(s.cart, item)
	return item, nil
}

// UpdateCartQuantity sets the quantity of a cart line; zero or negative
// removes the line.
func (s *Store) UpdateCartQuantity(code string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.cart {
		if item.Code == code {
			if quantity <= 0 {
				s.cart = append(s.cart[:i], s.cart[i+1:]...)
				return nil
			}
			product, ok := s.findProductLocked(code)
			if !ok {
				// The line outlived its product; a stock message would lie.
				return ErrProductRemoved
			}
			if product.Stock < quantity {
				return ErrInsufficientStock
			}
			s.cart[i].Quantity = quantity
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *Store) RemoveFromCart(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.cart {
		if item.Code == code {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []models.CartItem{}
}

// --- Bills ---

// Checkout captures the cart into a new bill, decrements stock, clears
// the cart, and prepends the bill to the history (newest first). The
// caller validates payment details before calling.
func (s *Store) Checkout(paymentMethod, customerName, customerEmail string, now time.Time) (models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return models.Bill{}, ErrEmptyCart
	}

	items := make([]models.CartItem, len(s.cart))
	copy(items, s.cart)

	if customerName == "" {
		customerName = "Walk-in Customer"
	}

	sent := false
	bill := models.Bill{
		ID:            utils.NewBillID(now),
		Date:          now,
		Items:         items,
		Total:         cartTotalLocked(items),
		PaymentMethod: paymentMethod,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		EmailSent:     &sent,
	}

	for _, item := range items {
		for i, p := range s.products {
			if p.Code == item.Code {
				s.products[i].Stock -= item.Quantity
			}
		}
	}

	s.bills = append([]models.Bill{bill}, s.bills...)
	s.cart = []models.CartItem{}

	s.saveProductsLocked()
	s.saveBillsLocked()
	return bill, nil
}

func (s *Store) Bills() []models.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyBills(s.bills)
}

func (s *Store) FindBill(id string) (models.Bill, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bills {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bill{}, false
}

// AttachFeedback records customer feedback against a bill, at most once.
func (s *Store) AttachFeedback(billID string, fb models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bills {
		if b.ID == billID {
			if b.Feedback != nil {
				return ErrFeedbackExists
			}
			s.bills[i].Feedback = &fb
			s.saveBillsLocked()
			return nil
		}
	}
	return ErrBillNotFound
}

// SetEmailSent records the outcome of a receipt email attempt.
func (s *Store) SetEmailSent(billID string, sent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bills {
		if b.ID == billID {
			v := sent
			s.bills[i].EmailSent = &v
			s.saveBillsLocked()
			return nil
		}
	}
	return ErrBillNotFound
}

// --- Email settings ---

func (s *Store) EmailSettings() models.EmailSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailSettings
}

func (s *Store) SetEmailSettings(settings models.EmailSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailSettings = settings
	s.saveAsync(SlotEmailSettings, settings)
}

// --- internals ---

func (s *Store) findProductLocked(code string) (models.Product, bool) {
	for _, p := range s.products {
		if p.Code == code {
			return p, true
		}
	}
	return models.Product{}, false
}

func cartTotalLocked(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func (s *Store) saveProductsLocked() {
	s.saveAsync(SlotProducts, copyProducts(s.products))
}

func (s *Store) saveBillsLocked() {
	s.saveAsync(SlotBills, copyBills(s.bills))
}

// saveAsync persists a slot in the background. The value must already be
// a private copy.
func (s *Store) saveAsync(slot string, v interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.slots.Save(ctx, slot, v); err != nil {
			log.Printf("Failed to save slot %s: %v", slot, err)
		}
	}()
}

func copyProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

func copyBills(bills []models.Bill) []models.Bill {
	out := make([]models.Bill, len(bills))
	copy(out, bills)
	return out
}

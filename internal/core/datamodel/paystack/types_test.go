package paystack_test

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
)

func TestPaystackTypes(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Paystack Types Suite")
}

var _ = Describe("TransactionMetadata", func() {
	decode := func(body string) paystack.Transaction {
		var tx paystack.Transaction
		Expect(json.Unmarshal([]byte(body), &tx)).To(Succeed())
		return tx
	}

	It("should decode a metadata object with numeric ids", func() {
		tx := decode(`{"reference":"ps_1","metadata":{"vendor_id":7,"order_id":42}}`)

		vendorID, err := tx.Metadata.VendorID.Int64()
		Expect(err).ToNot(HaveOccurred())
		Expect(vendorID).To(Equal(int64(7)))
	})

	It("should decode string ids the checkout flow sends", func() {
		tx := decode(`{"reference":"ps_1","metadata":{"vendor_id":"7","order_id":"42","mobile_number":"0244123456"}}`)

		vendorID, err := tx.Metadata.VendorID.Int64()
		Expect(err).ToNot(HaveOccurred())
		Expect(vendorID).To(Equal(int64(7)))
		Expect(tx.Metadata.MobileNumber).To(Equal("0244123456"))
	})

	It("should tolerate metadata sent as an empty string", func() {
		tx := decode(`{"reference":"ps_1","metadata":""}`)

		Expect(tx.Metadata).To(Equal(paystack.TransactionMetadata{}))
		_, err := tx.Metadata.VendorID.Int64()
		Expect(err).To(HaveOccurred())
	})

	It("should tolerate null metadata", func() {
		tx := decode(`{"reference":"ps_1","metadata":null}`)

		Expect(tx.Metadata).To(Equal(paystack.TransactionMetadata{}))
	})

	It("should tolerate a missing metadata field", func() {
		tx := decode(`{"reference":"ps_1","amount":50000}`)

		Expect(tx.Amount).To(Equal(int64(50000)))
		_, err := tx.Metadata.OrderID.Int64()
		Expect(err).To(HaveOccurred())
	})
})

package recon_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/akwasiboateng/campus-market/internal/core/datamodel/order"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/product"
	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/user"
	"github.com/akwasiboateng/campus-market/internal/recon"
)

var _ = Describe("Resolver", func() {
	var (
		store    *mockDatastore
		resolver *recon.Resolver
		ctx      context.Context
		logger   *slog.Logger
	)

	build := func() {
		var err error
		resolver, err = recon.NewResolver(ctx, store, logger)
		Expect(err).ToNot(HaveOccurred())
	}

	BeforeEach(func() {
		store = newMockDatastore()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()
		seedMarketplace(store)
		build()
	})

	Describe("ResolveBuyer", func() {
		It("should match a user by exact email", func() {
			buyer, err := resolver.ResolveBuyer("esi@buyers.test")
			Expect(err).ToNot(HaveOccurred())
			Expect(buyer.ID).To(Equal(int64(3)))
		})

		It("should not match case-insensitively", func() {
			_, err := resolver.ResolveBuyer("ESI@buyers.test")
			Expect(err).To(HaveOccurred())
		})

		It("should fail for an unknown email", func() {
			_, err := resolver.ResolveBuyer("nobody@nowhere.test")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResolveTransactionVendor", func() {
		Context("when metadata carries a vendor id", func() {
			It("should use it and report the metadata policy", func() {
				tx := paystacktypes.Transaction{
					Reference: "ps_meta",
					Metadata:  paystacktypes.TransactionMetadata{VendorID: json.Number("2")},
				}

				vendorID, policy, err := resolver.ResolveTransactionVendor(&tx)
				Expect(err).ToNot(HaveOccurred())
				Expect(vendorID).To(Equal(int64(2)))
				Expect(policy).To(Equal(recon.PolicyMetadata))
			})
		})

		Context("when only a subaccount code is present", func() {
			It("should reverse-look up the vendor by subaccount", func() {
				tx := paystacktypes.Transaction{
					Reference:  "ps_sub",
					Subaccount: &paystacktypes.Subaccount{SubaccountCode: "ACCT_ama"},
				}

				vendorID, policy, err := resolver.ResolveTransactionVendor(&tx)
				Expect(err).ToNot(HaveOccurred())
				Expect(vendorID).To(Equal(int64(1)))
				Expect(policy).To(Equal(recon.PolicySubaccount))
			})
		})

		Context("when the subaccount code is unknown", func() {
			It("should fall through to the first listed vendor", func() {
				tx := paystacktypes.Transaction{
					Reference:  "ps_unknown_sub",
					Subaccount: &paystacktypes.Subaccount{SubaccountCode: "ACCT_gone"},
				}

				vendorID, policy, err := resolver.ResolveTransactionVendor(&tx)
				Expect(err).ToNot(HaveOccurred())
				Expect(vendorID).To(Equal(int64(1)))
				Expect(policy).To(Equal(recon.PolicyFallbackFirst))
			})
		})

		Context("when nothing links the transaction to a vendor", func() {
			It("should attribute it to the first listed vendor", func() {
				tx := paystacktypes.Transaction{Reference: "ps_bare"}

				vendorID, policy, err := resolver.ResolveTransactionVendor(&tx)
				Expect(err).ToNot(HaveOccurred())
				Expect(vendorID).To(Equal(int64(1)))
				Expect(policy).To(Equal(recon.PolicyFallbackFirst))
			})
		})

		Context("when no vendors exist at all", func() {
			It("should fail resolution", func() {
				store.users = []user.User{{ID: 3, Email: "esi@buyers.test", Role: user.RoleBuyer}}
				build()
				tx := paystacktypes.Transaction{Reference: "ps_bare"}

				_, _, err := resolver.ResolveTransactionVendor(&tx)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ResolveTransferVendor", func() {
		It("should match a vendor by recipient email", func() {
			tr := paystacktypes.Transfer{
				Reference: "TRF_1",
				Recipient: paystacktypes.TransferRecipient{Email: "kofi@vendors.test"},
			}

			vendorID, err := resolver.ResolveTransferVendor(&tr)
			Expect(err).ToNot(HaveOccurred())
			Expect(vendorID).To(Equal(int64(2)))
		})

		It("should reject a recipient who is not a vendor", func() {
			tr := paystacktypes.Transfer{
				Reference: "TRF_1",
				Recipient: paystacktypes.TransferRecipient{Email: "esi@buyers.test"},
			}

			_, err := resolver.ResolveTransferVendor(&tr)
			Expect(err).To(HaveOccurred())
		})

		It("should never fall back when the email is unknown", func() {
			tr := paystacktypes.Transfer{
				Reference: "TRF_1",
				Recipient: paystacktypes.TransferRecipient{Email: "nobody@nowhere.test"},
			}

			_, err := resolver.ResolveTransferVendor(&tr)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResolveOrder", func() {
		Context("when metadata carries an order id", func() {
			It("should return it without creating anything", func() {
				tx := paystacktypes.Transaction{
					Reference: "ps_linked",
					Metadata:  paystacktypes.TransactionMetadata{OrderID: json.Number("42")},
				}

				orderID, created, err := resolver.ResolveOrder(ctx, &tx, 3, 1)
				Expect(err).ToNot(HaveOccurred())
				Expect(orderID).To(Equal(int64(42)))
				Expect(created).To(BeFalse())
				Expect(store.orders).To(BeEmpty())
			})
		})

		Context("when metadata has no order id", func() {
			It("should synthesize an order from the vendor's first product", func() {
				tx := paystacktypes.Transaction{
					Reference: "ps_unlinked",
					Amount:    50000,
					Metadata:  paystacktypes.TransactionMetadata{MobileNumber: "0244123456"},
				}

				orderID, created, err := resolver.ResolveOrder(ctx, &tx, 3, 1)
				Expect(err).ToNot(HaveOccurred())
				Expect(created).To(BeTrue())
				Expect(orderID).To(Equal(int64(1)))

				synthesized := store.orders[0]
				Expect(synthesized.BuyerID).To(Equal(int64(3)))
				Expect(synthesized.VendorID).To(Equal(int64(1)))
				Expect(synthesized.ProductID).To(Equal(int64(10)))
				Expect(synthesized.Quantity).To(Equal(1))
				Expect(synthesized.TotalAmount.StringFixed(2)).To(Equal("500.00"))
				Expect(synthesized.Status).To(Equal(order.StatusPending))
				Expect(synthesized.Phone).To(Equal("0244123456"))
				Expect(synthesized.IsSynthesized()).To(BeTrue())
			})
		})

		Context("when the vendor has no products", func() {
			It("should fall back to the platform's first product", func() {
				store.products = []product.Product{{ID: 20, VendorID: 99, Name: "Campus mug"}}
				build()
				tx := paystacktypes.Transaction{Reference: "ps_unlinked", Amount: 1000}

				_, created, err := resolver.ResolveOrder(ctx, &tx, 3, 1)
				Expect(err).ToNot(HaveOccurred())
				Expect(created).To(BeTrue())
				Expect(store.orders[0].ProductID).To(Equal(int64(20)))
			})
		})

		Context("when no products exist anywhere", func() {
			It("should fail resolution", func() {
				store.products = nil
				build()
				tx := paystacktypes.Transaction{Reference: "ps_unlinked", Amount: 1000}

				_, _, err := resolver.ResolveOrder(ctx, &tx, 3, 1)
				Expect(err).To(HaveOccurred())
			})
		})
	})
})

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vapecloud/miniapp/internal/storefront"
	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/env"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "shop"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	baseURL := env.Get("VAPECLOUD_SHOP_API_URL", "http://localhost:8080")
	initData := env.Get("VAPECLOUD_SHOP_INIT_DATA", "")

	var opts []shopclient.Option
	if initData != "" {
		opts = append(opts, shopclient.WithInitData(initData))
	}
	client, err := shopclient.NewClient(baseURL, opts...)
	if err != nil {
		logg.Error(ctx, "failed to build shop client", err)
		os.Exit(1)
	}

	view := NewConsoleView(os.Stdout)
	controller, err := storefront.NewController(storefront.ControllerParams{
		API:      client,
		View:     view,
		Logger:   logg,
		InitData: initData,
	})
	if err != nil {
		logg.Error(ctx, "failed to build controller", err)
		os.Exit(1)
	}

	if err := controller.Start(ctx); err != nil {
		logg.Error(ctx, "failed to start session", err)
		os.Exit(1)
	}

	fmt.Println("vapecloud shop - type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		runCommand(ctx, controller, line)
	}
}

func runCommand(ctx context.Context, controller *storefront.StorefrontController, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		printHelp()
	case "cart":
		controller.Cart().Reload(ctx)
	case "add":
		if id, ok := parseID(args); ok {
			controller.Cart().Add(ctx, id)
		}
	case "qty":
		if len(args) == 2 {
			id, okID := parseID(args[:1])
			qty, err := strconv.Atoi(args[1])
			if okID && err == nil {
				controller.Cart().SetQuantity(ctx, id, qty)
				return
			}
		}
		fmt.Println("usage: qty <product-id> <quantity>")
	case "rm":
		if id, ok := parseID(args); ok {
			controller.Cart().Remove(ctx, id)
		}
	case "checkout":
		controller.OpenCheckout(ctx)
	case "cancel":
		controller.CloseCheckout()
	case "name":
		wizard := openWizard(controller)
		if wizard != nil && len(args) >= 2 {
			wizard.SetCustomer(args[0], strings.Join(args[1:], " "))
			return
		}
		fmt.Println("usage: name <name> <phone>")
	case "type":
		wizard := openWizard(controller)
		if wizard != nil && len(args) == 1 {
			deliveryType, err := enums.ParseDeliveryType(args[0])
			if err != nil {
				fmt.Println("usage: type pickup|delivery")
				return
			}
			wizard.SetDeliveryType(ctx, deliveryType)
		}
	case "city":
		wizard := openWizard(controller)
		if wizard != nil && len(args) > 0 {
			wizard.SelectCity(ctx, strings.Join(args, " "))
		}
	case "point":
		wizard := openWizard(controller)
		if wizard != nil {
			if id, ok := parseID(args); ok {
				wizard.SelectPickupLocation(id, "")
			}
		}
	case "address":
		wizard := openWizard(controller)
		if wizard != nil && len(args) > 0 {
			wizard.SetDeliveryAddress(strings.Join(args, " "))
		}
	case "next":
		wizard := openWizard(controller)
		if wizard != nil && len(args) == 1 {
			wizard.Next(ctx, storefront.Step(args[0]))
		}
	case "prev":
		wizard := openWizard(controller)
		if wizard != nil {
			wizard.Prev(ctx)
		}
	case "submit":
		controller.Submit(ctx)
	case "profile":
		controller.ShowProfile(ctx)
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}
}

func openWizard(controller *storefront.StorefrontController) *storefront.OrderWizard {
	wizard := controller.Wizard()
	if wizard == nil {
		fmt.Println("no checkout in progress, run 'checkout' first")
	}
	return wizard
}

func parseID(args []string) (uint, bool) {
	if len(args) != 1 {
		fmt.Println("expected a numeric id")
		return 0, false
	}
	value, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || value == 0 {
		fmt.Println("expected a positive numeric id")
		return 0, false
	}
	return uint(value), true
}

func printHelp() {
	fmt.Print(`commands:
  cart                      show the cart
  add <id>                  add a product
  qty <id> <n>              set the absolute quantity (0 removes)
  rm <id>                   remove a product
  checkout                  open the checkout wizard
  cancel                    discard the checkout draft
  name <name> <phone>       fill the customer step
  type pickup|delivery      choose fulfillment
  city <name>               select a city
  point <id>                choose a pickup point
  address <text>            set a delivery address
  next customer|city|location|summary
  prev                      go back a step
  submit                    place the order
  profile                   balance and order history
  quit
`)
}

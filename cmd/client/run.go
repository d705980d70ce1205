package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techLii/chatobi/internal/client/config"
	"github.com/techLii/chatobi/internal/client/console"
	"github.com/techLii/chatobi/internal/client/network"
	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/session"
)

const replyTimeout = 10 * time.Second

// connect 서버에 연결하고, 자격 증명이 있으면 로그인 요청을 먼저 보냅니다.
// 서버는 요청을 순서대로 처리하므로 응답을 기다리지 않아도 됩니다.
func connect() (*network.Client, error) {
	cfg := config.Cfg
	url := pick(serverURL, cfg.Server.URL)

	netClient := network.NewClient()
	if err := netClient.Connect(url); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	var err error
	switch tok, mail, pass := pick(token, cfg.Auth.Token), pick(email, cfg.Auth.Email), pick(password, cfg.Auth.Password); {
	case tok != "":
		err = netClient.Request(domain.TypeResume, domain.ResumePayload{Token: tok})
	case signup:
		err = netClient.Request(domain.TypeSignup, domain.SignupPayload{Name: name, Email: mail, Password: pass})
	case mail != "" || pass != "":
		err = netClient.Request(domain.TypeLogin, domain.LoginPayload{Email: mail, Password: pass})
	}
	if err != nil {
		netClient.Close()
		return nil, err
	}
	return netClient, nil
}

// runView 뷰를 열고 사용자가 종료할 때까지 입력을 처리합니다.
func runView(ctx context.Context, view domain.OpenViewPayload) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	netClient, err := connect()
	if err != nil {
		return err
	}
	defer netClient.Close()

	con := console.New(netClient, session.New(), os.Stdout, view)
	if err := con.Open(); err != nil {
		return err
	}
	fmt.Println("Type /help for commands.")

	err = con.Run(ctx, netClient.Incoming(), readLines(os.Stdin))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runOnce 요청 하나를 보내고 그 응답을 출력한 뒤 종료합니다.
func runOnce(ctx context.Context, msgType string, payload interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	netClient, err := connect()
	if err != nil {
		return err
	}
	defer netClient.Close()

	if err := netClient.Request(msgType, payload); err != nil {
		return err
	}

	con := console.New(netClient, session.New(), os.Stdout, domain.OpenViewPayload{})
	defer fmt.Println()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("no answer from the server: %w", ctx.Err())
		case env, ok := <-netClient.Incoming():
			if !ok {
				return network.ErrClosed
			}
			con.Handle(env)
			done, err := answers(env, msgType)
			if done {
				return err
			}
		}
	}
}

// answers reports whether env ends a one-shot request of type msgType.
func answers(env network.Envelope, msgType string) (bool, error) {
	switch env.Type {
	case domain.TypeConstituencies, domain.TypeProfile:
		return true, nil
	case domain.TypeSystemMessage, domain.TypeErrorMessage:
		var p domain.SystemPayload
		if err := env.Decode(&p); err != nil {
			return true, err
		}
		failed := env.Type == domain.TypeErrorMessage
		switch p.Op {
		case msgType:
			if failed {
				return true, errors.New(p.Content)
			}
			return true, nil
		case domain.TypeLogin, domain.TypeSignup, domain.TypeResume:
			if failed {
				return true, errors.New(p.Content)
			}
		}
	}
	return false, nil
}

func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

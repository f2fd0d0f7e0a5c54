// Package internal 實作即時球拍對戰伺服器的核心。
//
// # 配對
//
// 玩家透過 WebSocket 送出 joinMatchmaking 加入 1v1 或 2v2 等待池；
// 人數足夠時依 FIFO 抽出一組並開房。同一玩家同時最多在一個等待池或一個房間中。
//
// # 對局
//
// 每個房間一個 60 Hz ticker，伺服器權威推進球與得分：
//   - 1v1 上下是牆，左右是得分邊
//   - 2v2 四邊都是得分邊，越過誰守的邊就是對手得分
//   - 先得 5 分的隊伍獲勝；中途離開視為棄權
//
// # 連線
//
// 連線在升級前以 IdentityBinder 驗證身分。同一玩家的新連線會取代舊連線，
// 舊連線收到 forceDisconnect；舊連線之後的斷線不影響新連線的登記或對局。
//
// 組裝方式：
//
//	hub := internal.NewHub(binder, logger)
//	arena := internal.NewArena(hub, sink, logger)
//	hub.Attach(arena)
//	handler := internal.NewHandler(arena, hub, leaderboard, stats, logger)
//	http.ListenAndServe(":3000", handler.Routes())
package internal
